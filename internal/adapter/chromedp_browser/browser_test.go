package chromedp_browser

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/feed-harvester/internal/extract"
	"github.com/user/feed-harvester/internal/harvest"
	"github.com/user/feed-harvester/internal/proxy"
)

const feedHTML = `<html><body>
<div data-pagelet="GroupFeed">
	<div><h2> Ana Souza </h2><p>first</p></div>
	<div><p>sponsored block without heading</p></div>
	<div><h2>Bruno Lima</h2></div>
	<div><h2></h2></div>
</div>
<div data-pagelet="Other"><div><h2>Not a post</h2></div></div>
</body></html>`

func TestFindPosts(t *testing.T) {
	posts, err := FindPosts(feedHTML)
	require.NoError(t, err)
	assert.Equal(t, []harvest.PostRef{
		{Index: 0, Author: "Ana Souza"},
		{Index: 2, Author: "Bruno Lima"},
	}, posts)
}

func TestFindPostsEmptyPage(t *testing.T) {
	posts, err := FindPosts("<html><body></body></html>")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestPostData(t *testing.T) {
	body, fetch := postData(&network.Request{HasPostData: true, PostDataEntries: []*network.PostDataEntry{
		{Bytes: b64("fb_api_req_friendly_name=")},
		{Bytes: b64("CometFocusedStoryViewUFIQuery")},
	}})
	assert.Equal(t, "fb_api_req_friendly_name=CometFocusedStoryViewUFIQuery", body)
	assert.False(t, fetch)

	body, fetch = postData(&network.Request{HasPostData: true})
	assert.Empty(t, body)
	assert.True(t, fetch, "body omitted by the browser")

	body, fetch = postData(&network.Request{})
	assert.Empty(t, body)
	assert.False(t, fetch)
}

const commentResponse = `{"data":{"story_card":{"post_id":"p1"},"feedback":{"ufi_renderer":{"feedback":{"comment_list_renderer":{"feedback":` +
	`{"comment_rendering_instance_for_feed_location":{"comments":{"edges":[{"node":{"id":"c1","body":{"text":"hey"},"author":{"name":"A B"}}}]}}}}}}}}}`

func newTestListener(responses map[network.RequestID]string) (*listener, *harvest.ResultSet) {
	rs := harvest.NewResultSet()
	in := harvest.NewInterceptor("graphql", extract.DefaultSchema, rs, nil)
	l := newListener(context.Background(), in)
	l.requestBody = func(context.Context, network.RequestID) (string, error) {
		return "fb_api_req_friendly_name=CometFocusedStoryViewUFIQuery", nil
	}
	l.responseBody = func(_ context.Context, id network.RequestID) ([]byte, error) {
		body, ok := responses[id]
		if !ok {
			return nil, errors.New("no resource with given identifier found")
		}
		return []byte(body), nil
	}
	return l, rs
}

func TestListenerCapturesFinishedQueries(t *testing.T) {
	l, rs := newTestListener(map[network.RequestID]string{"1": commentResponse, "2": commentResponse})

	l.onEvent(&network.EventRequestWillBeSent{RequestID: "1", Request: &network.Request{
		URL: "https://www.facebook.com/api/graphql/", HasPostData: true,
		PostDataEntries: []*network.PostDataEntry{{Bytes: b64("CometFocusedStoryViewUFIQuery")}},
	}})
	l.onEvent(&network.EventRequestWillBeSent{RequestID: "2", Request: &network.Request{
		URL: "https://www.facebook.com/static/app.js",
	}})
	l.onEvent(&network.EventLoadingFinished{RequestID: "1"})
	l.onEvent(&network.EventLoadingFinished{RequestID: "2"})
	l.stop()

	require.Equal(t, 1, rs.Len())
	assert.Equal(t, "c1", rs.Records()[0].Column("commentId").String())
}

func TestListenerFetchesOmittedRequestBody(t *testing.T) {
	l, rs := newTestListener(map[network.RequestID]string{"7": commentResponse})

	l.onEvent(&network.EventRequestWillBeSent{RequestID: "7", Request: &network.Request{
		URL: "https://www.facebook.com/api/graphql/", HasPostData: true,
	}})
	l.onEvent(&network.EventLoadingFinished{RequestID: "7"})
	l.stop()

	assert.Equal(t, 1, rs.Len())
}

func TestListenerDropsFailedRequests(t *testing.T) {
	l, rs := newTestListener(map[network.RequestID]string{"3": commentResponse})

	l.onEvent(&network.EventRequestWillBeSent{RequestID: "3", Request: &network.Request{
		URL: "https://www.facebook.com/api/graphql/", HasPostData: true,
		PostDataEntries: []*network.PostDataEntry{{Bytes: b64("CometFocusedStoryViewUFIQuery")}},
	}})
	l.onEvent(&network.EventLoadingFailed{RequestID: "3"})
	l.onEvent(&network.EventLoadingFinished{RequestID: "3"})
	l.stop()

	assert.Equal(t, 0, rs.Len())
	assert.Empty(t, l.pending)
}

func TestListenerIgnoresEventsAfterStop(t *testing.T) {
	l, rs := newTestListener(map[network.RequestID]string{"4": commentResponse, "5": commentResponse})
	var fetched atomic.Int32
	respond := l.responseBody
	l.responseBody = func(ctx context.Context, id network.RequestID) ([]byte, error) {
		fetched.Add(1)
		return respond(ctx, id)
	}

	l.onEvent(&network.EventRequestWillBeSent{RequestID: "4", Request: &network.Request{
		URL: "https://www.facebook.com/api/graphql/", HasPostData: true,
		PostDataEntries: []*network.PostDataEntry{{Bytes: b64("CometFocusedStoryViewUFIQuery")}},
	}})
	l.stop()

	l.onEvent(&network.EventLoadingFinished{RequestID: "4"})
	l.onEvent(&network.EventRequestWillBeSent{RequestID: "5", Request: &network.Request{
		URL: "https://www.facebook.com/api/graphql/", HasPostData: true,
	}})
	l.onEvent(&network.EventLoadingFinished{RequestID: "5"})
	l.stop()

	assert.Equal(t, int32(0), fetched.Load())
	assert.Equal(t, 0, rs.Len())
	assert.Empty(t, l.pending)
}

func TestListenerStopRacesWithEvents(t *testing.T) {
	l, _ := newTestListener(map[network.RequestID]string{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			id := network.RequestID(strconv.Itoa(i))
			l.onEvent(&network.EventRequestWillBeSent{RequestID: id, Request: &network.Request{
				URL: "https://www.facebook.com/api/graphql/",
			}})
			l.onEvent(&network.EventLoadingFinished{RequestID: id})
		}
	}()
	l.stop()
	wg.Wait()
	l.stop()
}

func TestAllocatorOptions(t *testing.T) {
	b := NewBrowser(Config{UserDataDir: "/tmp/profile"}, proxy.NewManager([]string{"http://p:1"}, nil), nil).(*Browser)
	assert.Equal(t, DefaultCommentControlPath, b.cfg.CommentControlPath)
	assert.Positive(t, b.cfg.NavigateTimeout)
	// four flags, user agent, proxy and profile directory
	assert.Len(t, b.allocatorOptions(), len(chromedp.DefaultExecAllocatorOptions)+7)
}
