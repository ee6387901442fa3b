package harvest

import (
	"sync"

	"github.com/user/feed-harvester/internal/entity"
)

// ResultSet accumulates the records of one harvest run in insertion order.
//
// Posts are appended unconditionally. Comments are deduplicated by comment id
// against every entry already present, first write wins. Posts take part in
// that comparison with an absent comment id, so a comment without an id is
// dropped once any post is present.
type ResultSet struct {
	mu       sync.Mutex
	records  []entity.Record
	seen     map[entity.Field]struct{}
	posts    int
	comments int
}

func NewResultSet() *ResultSet {
	return &ResultSet{seen: make(map[entity.Field]struct{})}
}

// AppendPost adds p even when a post with the same id is already present.
func (rs *ResultSet) AppendPost(p *entity.Post) {
	if p == nil {
		return
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.records = append(rs.records, p)
	rs.seen[entity.Field{}] = struct{}{}
	rs.posts++
}

// AppendComments adds every comment whose id is not yet present and returns
// how many were added.
func (rs *ResultSet) AppendComments(comments []*entity.Comment) int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	added := 0
	for _, c := range comments {
		if c == nil {
			continue
		}
		if _, dup := rs.seen[c.CommentID]; dup {
			continue
		}
		rs.seen[c.CommentID] = struct{}{}
		rs.records = append(rs.records, c)
		rs.comments++
		added++
	}
	return added
}

// Records returns a snapshot of the records in insertion order.
func (rs *ResultSet) Records() []entity.Record {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]entity.Record, len(rs.records))
	copy(out, rs.records)
	return out
}

func (rs *ResultSet) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.records)
}

// Counts returns the number of posts and comments held.
func (rs *ResultSet) Counts() (posts, comments int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.posts, rs.comments
}
