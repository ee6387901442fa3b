package chromedp_browser

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/feed-harvester/internal/harvest"
)

type pendingRequest struct {
	body      string
	fetchBody bool
}

// listener pairs query requests with their finished responses. Event
// callbacks run on chromedp's event goroutine and must not issue commands,
// so bodies are fetched on a goroutine per finished request.
type listener struct {
	ctx context.Context
	in  *harvest.Interceptor

	mu      sync.Mutex
	pending map[network.RequestID]pendingRequest
	stopped bool
	wg      sync.WaitGroup

	requestBody  func(ctx context.Context, id network.RequestID) (string, error)
	responseBody func(ctx context.Context, id network.RequestID) ([]byte, error)
}

func newListener(ctx context.Context, in *harvest.Interceptor) *listener {
	return &listener{
		ctx:     ctx,
		in:      in,
		pending: make(map[network.RequestID]pendingRequest),
		requestBody: func(ctx context.Context, id network.RequestID) (string, error) {
			return network.GetRequestPostData(id).Do(targetExecutor(ctx))
		},
		responseBody: func(ctx context.Context, id network.RequestID) ([]byte, error) {
			return network.GetResponseBody(id).Do(targetExecutor(ctx))
		},
	}
}

func targetExecutor(ctx context.Context) context.Context {
	return cdp.WithExecutor(ctx, chromedp.FromContext(ctx).Target)
}

func (l *listener) onEvent(ev any) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		if e.Request == nil || !l.in.Matches(e.Request.URL) {
			return
		}
		body, fetch := postData(e.Request)
		l.mu.Lock()
		if !l.stopped {
			l.pending[e.RequestID] = pendingRequest{body: body, fetchBody: fetch}
		}
		l.mu.Unlock()
	case *network.EventLoadingFinished:
		req, ok := l.start(e.RequestID)
		if !ok {
			return
		}
		go func() {
			defer l.wg.Done()
			l.complete(e.RequestID, req)
		}()
	case *network.EventLoadingFailed:
		l.take(e.RequestID)
	}
}

func (l *listener) take(id network.RequestID) (pendingRequest, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	req, ok := l.pending[id]
	delete(l.pending, id)
	return req, ok
}

// start removes a pending request and registers its completion with wg. The
// registration happens under mu so that it never races with stop.
func (l *listener) start(id network.RequestID) (pendingRequest, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	req, ok := l.pending[id]
	delete(l.pending, id)
	if !ok || l.stopped {
		return pendingRequest{}, false
	}
	l.wg.Add(1)
	return req, true
}

func (l *listener) complete(id network.RequestID, req pendingRequest) {
	body := req.body
	if req.fetchBody {
		fetched, err := l.requestBody(l.ctx, id)
		if err != nil {
			slog.Debug("Failed to fetch request body", "request_id", id, "error", err)
		}
		body = fetched
	}
	resp, err := l.responseBody(l.ctx, id)
	if err != nil {
		slog.Debug("Failed to fetch response body", "request_id", id, "error", err)
		return
	}
	kind := l.in.Handle(body, resp)
	slog.Debug("Query response captured", "request_id", id, "kind", kind, "bytes", len(resp))
}

// stop makes the listener ignore further events and waits for the captures
// already in flight.
func (l *listener) stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
	l.wg.Wait()
}

// postData returns the request body carried in the event. When the browser
// omitted it, fetch reports that it has to be requested separately.
func postData(req *network.Request) (body string, fetch bool) {
	if !req.HasPostData {
		return "", false
	}
	if len(req.PostDataEntries) == 0 {
		return "", true
	}
	var b strings.Builder
	for _, entry := range req.PostDataEntries {
		if entry == nil {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(entry.Bytes)
		if err != nil {
			return "", true
		}
		b.Write(data)
	}
	return b.String(), false
}
