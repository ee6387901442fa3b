package harvest

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/feed-harvester/internal/entity"
	"github.com/user/feed-harvester/internal/extract"
	"github.com/user/feed-harvester/pkg/metrics"
)

const (
	feedRequest    = "fb_api_req_friendly_name=GroupsCometFeedRegularStoriesPaginationQuery&variables=%7B%7D"
	commentRequest = "fb_api_req_friendly_name=CometFocusedStoryViewUFIQuery&variables=%7B%7D"
)

func feedLine(postID string, commentIDs ...string) string {
	top := ""
	for i, id := range commentIDs {
		if i > 0 {
			top += ","
		}
		top += `{"comment":{"id":"` + id + `","body":{"text":"hi"},"author":{"name":"Com Menter","id":"u"}}}`
	}
	return `{"data":{"node":{"comet_sections":{"feedback":{"story":{"post_id":"` + postID +
		`","feedback_context":{"interesting_top_level_comments":[` + top + `]}}}}}}}`
}

func commentList(postID string, commentIDs ...string) string {
	edges := ""
	for i, id := range commentIDs {
		if i > 0 {
			edges += ","
		}
		edges += `{"node":{"id":"` + id + `","body":{"text":"full"},"author":{"name":"Full Name"},` +
			`"comment_action_links":[{"__typename":"XFBCommentTimeStampActionLink","comment":{"created_time":42,"url":"u"}}]}}`
	}
	return `{"data":{"story_card":{"post_id":"` + postID + `"},"feedback":{"ufi_renderer":{"feedback":{"comment_list_renderer":{"feedback":` +
		`{"comment_rendering_instance_for_feed_location":{"comments":{"edges":[` + edges + `]}}}}}}}}}`
}

func newTestInterceptor(m *metrics.Metrics) *Interceptor {
	return NewInterceptor("graphql", extract.DefaultSchema, NewResultSet(), m)
}

func TestInterceptorMatches(t *testing.T) {
	in := newTestInterceptor(nil)
	assert.True(t, in.Matches("https://www.facebook.com/api/graphql/"))
	assert.False(t, in.Matches("https://www.facebook.com/ajax/bz"))
}

func TestInterceptorClassify(t *testing.T) {
	in := newTestInterceptor(nil)
	assert.Equal(t, PayloadFeedPage, in.Classify(feedRequest))
	assert.Equal(t, PayloadCommentList, in.Classify(commentRequest))
	assert.Equal(t, PayloadFeedPage, in.Classify(feedRequest+"&"+commentRequest), "feed marker has priority")
	assert.Equal(t, PayloadIgnored, in.Classify("fb_api_req_friendly_name=SomethingElse"))
	assert.Equal(t, PayloadIgnored, in.Classify(""))
}

func TestInterceptorHandleFeedPage(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	in := newTestInterceptor(m)

	body := feedLine("p1", "c1", "c2") + "\n" + feedLine("p2", "c2") + "\n" + feedLine("p3")
	kind := in.Handle(feedRequest, []byte(body))
	require.Equal(t, PayloadFeedPage, kind)

	records := in.Results().Records()
	require.Len(t, records, 5)
	assert.Equal(t, entity.Text("p1"), records[0].Column(entity.ColPostID))
	assert.Equal(t, entity.Text("c1"), records[1].Column(entity.ColCommentID))
	assert.Equal(t, entity.Text("c2"), records[2].Column(entity.ColCommentID))
	assert.Equal(t, entity.Text("p2"), records[3].Column(entity.ColPostID))
	assert.Equal(t, entity.Text("p3"), records[4].Column(entity.ColPostID))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DuplicateComments))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecordsTotal.WithLabelValues("post")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsTotal.WithLabelValues("comment")))

	select {
	case <-in.Captured():
	default:
		t.Fatal("expected a capture signal")
	}
}

func TestInterceptorHandleCommentList(t *testing.T) {
	in := newTestInterceptor(nil)
	in.Handle(feedRequest, []byte(feedLine("p1", "c1")))
	kind := in.Handle(commentRequest, []byte(commentList("p1", "c1", "c3")))
	require.Equal(t, PayloadCommentList, kind)

	records := in.Results().Records()
	require.Len(t, records, 3)
	preview := records[1].(*entity.Comment)
	assert.True(t, preview.Timestamp.IsAbsent(), "preview seen first is kept")
	full := records[2].(*entity.Comment)
	assert.Equal(t, entity.Text("c3"), full.CommentID)
	assert.Equal(t, entity.Text("42"), full.Timestamp)
}

func TestInterceptorHandleMalformedPayloads(t *testing.T) {
	in := newTestInterceptor(nil)
	assert.NotPanics(t, func() {
		in.Handle(feedRequest, []byte("<html>oops"))
		in.Handle(commentRequest, []byte("for (;;);"))
		in.Handle(commentRequest, nil)
		in.Handle(feedRequest, []byte(feedLine("p1", "c1")+"\n{oops"))
	})
	assert.Equal(t, 0, in.Results().Len())
}

func TestInterceptorSkipsFeedTrailers(t *testing.T) {
	in := newTestInterceptor(nil)
	body := feedLine("p1", "c1") + "\n" +
		`{"label":"page_info","data":{"page_info":{"end_cursor":"x","has_next_page":true}}}` + "\n" +
		`{"extensions":{"is_final":true}}`
	in.Handle(feedRequest, []byte(body))

	records := in.Results().Records()
	require.Len(t, records, 2)
	assert.Equal(t, entity.Text("p1"), records[0].Column(entity.ColPostID))
	assert.Equal(t, entity.Text("c1"), records[1].Column(entity.ColCommentID))
}

func TestInterceptorIgnoresUnknownCalls(t *testing.T) {
	in := newTestInterceptor(nil)
	assert.Equal(t, PayloadIgnored, in.Handle("other", []byte(feedLine("p1"))))
	assert.Equal(t, 0, in.Results().Len())
	select {
	case <-in.Captured():
		t.Fatal("ignored calls must not signal")
	default:
	}
}
