package harvest

import (
	"log/slog"
	"strings"

	"github.com/user/feed-harvester/internal/entity"
	"github.com/user/feed-harvester/internal/extract"
	"github.com/user/feed-harvester/pkg/metrics"
)

// PayloadKind is the classification of a captured query call.
type PayloadKind string

const (
	PayloadFeedPage    PayloadKind = "feed_page"
	PayloadCommentList PayloadKind = "comment_list"
	PayloadIgnored     PayloadKind = "ignored"
)

// Interceptor classifies captured query responses and merges what they carry
// into a result set. It never fails: unusable payloads are treated as empty.
type Interceptor struct {
	endpoint string
	schema   extract.Schema
	results  *ResultSet
	metrics  *metrics.Metrics
	captured chan struct{}
}

// NewInterceptor watches calls whose URL contains endpoint.
func NewInterceptor(endpoint string, schema extract.Schema, results *ResultSet, m *metrics.Metrics) *Interceptor {
	return &Interceptor{
		endpoint: endpoint,
		schema:   schema,
		results:  results,
		metrics:  m,
		captured: make(chan struct{}, 1),
	}
}

// Matches reports whether a request to url should be observed.
func (in *Interceptor) Matches(url string) bool {
	return strings.Contains(url, in.endpoint)
}

// Classify inspects the outgoing request body. The feed marker wins over the
// comment marker.
func (in *Interceptor) Classify(requestBody string) PayloadKind {
	switch {
	case strings.Contains(requestBody, in.schema.FeedQueryMarker):
		return PayloadFeedPage
	case strings.Contains(requestBody, in.schema.CommentQueryMarker):
		return PayloadCommentList
	default:
		return PayloadIgnored
	}
}

// Handle processes one completed call and returns how it was classified.
func (in *Interceptor) Handle(requestBody string, responseBody []byte) PayloadKind {
	kind := in.Classify(requestBody)
	in.metrics.IncCaptured(string(kind))

	switch kind {
	case PayloadFeedPage:
		items := in.schema.ParseFeedPage(responseBody)
		posts, comments := 0, 0
		for _, item := range items {
			in.results.AppendPost(item.Post)
			posts++
			comments += in.mergeComments(item.Comments)
		}
		in.metrics.AddRecords(string(entity.KindPost), posts)
		slog.Debug("Captured feed page", "posts", posts, "comments", comments)
	case PayloadCommentList:
		added := in.mergeComments(in.schema.ParseCommentList(responseBody))
		slog.Debug("Captured comment list", "comments", added)
	default:
		return kind
	}

	in.signal()
	return kind
}

// Captured delivers a value after each classified capture. Only the latest
// pending signal is kept.
func (in *Interceptor) Captured() <-chan struct{} {
	return in.captured
}

// Results returns the result set captures are merged into.
func (in *Interceptor) Results() *ResultSet {
	return in.results
}

func (in *Interceptor) mergeComments(comments []*entity.Comment) int {
	added := in.results.AppendComments(comments)
	in.metrics.AddRecords(string(entity.KindComment), added)
	in.metrics.AddDuplicateComments(len(comments) - added)
	return added
}

func (in *Interceptor) signal() {
	select {
	case in.captured <- struct{}{}:
	default:
	}
}

// drain discards a pending capture signal.
func (in *Interceptor) drain() {
	select {
	case <-in.captured:
	default:
	}
}
