package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/feed-harvester/pkg/metrics"
)

type State string

const (
	StateIdle            State = "idle"
	StateCollectingPosts State = "collecting_posts"
	StateOpeningComments State = "opening_comments"
	StateWaiting         State = "waiting"
	StateClosingDialog   State = "closing_dialog"
	StateScrolling       State = "scrolling"
	StateRecollecting    State = "recollecting"
	StateFinished        State = "finished"
)

// Harvester walks a group feed post by post, opening each post's comments
// so that the page issues the query calls the interceptor captures.
type Harvester struct {
	page        Page
	interceptor *Interceptor
	opts        Options
	metrics     *metrics.Metrics
	state       State
}

func NewHarvester(page Page, interceptor *Interceptor, opts Options, m *metrics.Metrics) *Harvester {
	return &Harvester{
		page:        page,
		interceptor: interceptor,
		opts:        opts,
		metrics:     m,
		state:       StateIdle,
	}
}

// State returns the state the loop is in, or ended in.
func (h *Harvester) State() State {
	return h.state
}

// Run drives the loop until every enumerated post has been visited. The loop
// bound is re-read after each scroll, so posts revealed by scrolling extend
// the run. On error the partial result set is returned along with it.
func (h *Harvester) Run(ctx context.Context) (*ResultSet, error) {
	start := time.Now()
	defer func() { h.metrics.ObserveHarvest(time.Since(start)) }()

	results := h.interceptor.Results()
	if err := h.opts.Validate(); err != nil {
		return results, err
	}
	if err := h.page.Intercept(ctx, h.interceptor); err != nil {
		return results, fmt.Errorf("failed to intercept page requests: %w", err)
	}

	h.setState(StateCollectingPosts)
	posts, err := h.page.Posts(ctx)
	if err != nil {
		return results, fmt.Errorf("failed to list posts: %w", err)
	}
	slog.Info("Starting harvest", "posts", len(posts), "scrolls", h.opts.Scrolls, "wait_mode", h.opts.WaitMode)

	scrolls := h.opts.Scrolls
	for i := 0; i < len(posts); {
		post := posts[i]

		h.setState(StateOpeningComments)
		h.interceptor.drain()
		opened, err := h.page.OpenComments(ctx, post)
		if err != nil {
			slog.Warn("Failed to open comments", "post_index", post.Index, "author", post.Author, "error", err)
		} else if !opened {
			slog.Debug("No comment control found", "post_index", post.Index, "author", post.Author)
		}

		h.setState(StateWaiting)
		if err := h.waitForCapture(ctx); err != nil {
			return results, err
		}

		h.setState(StateClosingDialog)
		if _, err := h.page.CloseDialog(ctx); err != nil {
			slog.Warn("Failed to close dialog", "post_index", post.Index, "error", err)
		}

		i++
		if scrolls > 0 {
			h.setState(StateScrolling)
			if err := h.scroll(ctx); err != nil {
				return results, err
			}
			scrolls--

			h.setState(StateRecollecting)
			posts, err = h.page.Posts(ctx)
			if err != nil {
				return results, fmt.Errorf("failed to list posts after scrolling: %w", err)
			}
			slog.Debug("Posts re-collected", "posts", len(posts), "visited", i, "scrolls_left", scrolls)
		}
	}

	h.setState(StateFinished)
	p, c := results.Counts()
	slog.Info("Harvest finished", "posts", p, "comments", c, "duration_ms", time.Since(start).Milliseconds())
	return results, nil
}

func (h *Harvester) waitForCapture(ctx context.Context) error {
	if h.opts.WaitMode != WaitSignal {
		return sleep(ctx, h.opts.CommentWait)
	}
	timer := time.NewTimer(h.opts.CaptureTimeout)
	defer timer.Stop()
	select {
	case <-h.interceptor.Captured():
		return nil
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Harvester) scroll(ctx context.Context) error {
	if err := sleep(ctx, h.opts.ScrollDispatchDelay); err != nil {
		return err
	}
	if err := h.page.Scroll(ctx, h.opts.ScrollStep); err != nil {
		slog.Warn("Failed to scroll", "error", err)
	} else {
		h.metrics.IncScrolls()
	}
	return sleep(ctx, h.opts.SettleDelay)
}

func (h *Harvester) setState(s State) {
	if h.state != s {
		slog.Debug("Harvest state change", "from", h.state, "to", s)
	}
	h.state = s
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
