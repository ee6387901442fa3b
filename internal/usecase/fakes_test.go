package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/user/feed-harvester/internal/entity"
	"github.com/user/feed-harvester/internal/harvest"
	"github.com/user/feed-harvester/internal/repository"
)

type memQueue struct {
	mu  sync.Mutex
	ids []string
}

func (q *memQueue) Push(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, id)
	return nil
}

func (q *memQueue) Pop(context.Context) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ids) == 0 {
		return "", repository.ErrQueueEmpty
	}
	id := q.ids[0]
	q.ids = q.ids[1:]
	return id, nil
}

func (q *memQueue) Size(context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.ids)), nil
}

type memJobs struct {
	mu   sync.Mutex
	jobs map[string]entity.HarvestJob
}

func newMemJobs() *memJobs {
	return &memJobs{jobs: map[string]entity.HarvestJob{}}
}

func (m *memJobs) put(job *entity.HarvestJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
}

func (m *memJobs) get(id string) (*entity.HarvestJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &job, nil
}

func (m *memJobs) Save(_ context.Context, job *entity.HarvestJob, _ time.Duration) error {
	m.put(job)
	return nil
}

func (m *memJobs) Get(_ context.Context, id string) (*entity.HarvestJob, error) {
	return m.get(id)
}

func (m *memJobs) SaveRun(_ context.Context, job *entity.HarvestJob) error {
	m.put(job)
	return nil
}

func (m *memJobs) FindRun(_ context.Context, id string) (*entity.HarvestJob, error) {
	return m.get(id)
}

func (m *memJobs) ListRecent(context.Context, int) ([]*entity.HarvestJob, error) {
	return nil, nil
}

type memRecords struct {
	mu      sync.Mutex
	records map[string][]entity.Record
	saveErr error
}

func newMemRecords() *memRecords {
	return &memRecords{records: map[string][]entity.Record{}}
}

func (m *memRecords) SaveRecords(_ context.Context, jobID string, records []entity.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[jobID] = records
	return nil
}

func (m *memRecords) FindByJob(_ context.Context, jobID string) ([]entity.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[jobID], nil
}

type memLocks struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocks() *memLocks {
	return &memLocks{held: map[string]bool{}}
}

func (m *memLocks) Acquire(_ context.Context, url string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[url] {
		return false, nil
	}
	m.held[url] = true
	return true, nil
}

func (m *memLocks) Release(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, url)
	return nil
}

// stubHarvester returns canned results per group URL.
type stubHarvester struct {
	mu       sync.Mutex
	results  map[string]*HarvestResult
	errs     map[string]error
	requests []HarvestRequest
}

func (s *stubHarvester) Harvest(_ context.Context, req HarvestRequest) (*HarvestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.results[req.GroupURL], s.errs[req.GroupURL]
}

// feedSession is a page with a fixed number of posts; opening a post's
// comments fires one comment-list capture for it.
type feedSession struct {
	posts  int
	in     *harvest.Interceptor
	closed bool
}

const commentQuery = "fb_api_req_friendly_name=CometFocusedStoryViewUFIQuery"

func (s *feedSession) Intercept(_ context.Context, in *harvest.Interceptor) error {
	s.in = in
	return nil
}

func (s *feedSession) Posts(context.Context) ([]harvest.PostRef, error) {
	refs := make([]harvest.PostRef, s.posts)
	for i := range refs {
		refs[i] = harvest.PostRef{Index: i}
	}
	return refs, nil
}

func (s *feedSession) OpenComments(_ context.Context, post harvest.PostRef) (bool, error) {
	id := string(rune('a' + post.Index))
	body := `{"data":{"story_card":{"post_id":"p` + id + `"},"feedback":{"ufi_renderer":{"feedback":{"comment_list_renderer":{"feedback":` +
		`{"comment_rendering_instance_for_feed_location":{"comments":{"edges":[{"node":{"id":"c` + id + `","body":{"text":"a \"quoted\" reply"}}}]}}}}}}}}}`
	s.in.Handle(commentQuery, []byte(body))
	return true, nil
}

func (s *feedSession) CloseDialog(context.Context) (bool, error) { return true, nil }
func (s *feedSession) Scroll(context.Context, int) error         { return nil }
func (s *feedSession) Close()                                    { s.closed = true }

type fakeBrowser struct {
	session *feedSession
	err     error
	opened  []string
}

func (b *fakeBrowser) Open(_ context.Context, url string) (repository.BrowserSession, error) {
	b.opened = append(b.opened, url)
	if b.err != nil {
		return nil, b.err
	}
	return b.session, nil
}
