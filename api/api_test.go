package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"brainrot/jobs"
	"brainrot/pipeline"
	"brainrot/types"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, render RenderFunc, feed FeedFunc) (*Server, *gin.Engine, jobs.Store) {
	t.Helper()
	store := jobs.NewMemoryStore()
	s, err := NewServer(context.Background(), Config{Render: render, Feed: feed, Store: store})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s, s.NewRouter(), store
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	_, r, _ := newTestServer(t, func(context.Context, types.RenderRequest) (*pipeline.Result, error) { return nil, nil }, nil)
	w := do(r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
}

func TestRender_Lifecycle(t *testing.T) {
	render := func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error) {
		if req.Text == "explode" {
			return nil, errors.New("boom")
		}
		return &pipeline.Result{ID: req.ID, Output: "output/" + req.ID + ".mp4"}, nil
	}
	s, r, _ := newTestServer(t, render, nil)

	w := do(r, http.MethodPost, "/api/render", `{"id":"job-1","text":"hello world"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("POST = %d %s", w.Code, w.Body.String())
	}
	var accepted struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil || accepted.JobID != "job-1" {
		t.Fatalf("accepted = %+v, %v", accepted, err)
	}

	w = do(r, http.MethodPost, "/api/render", `{"id":"job-2","text":"explode"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("POST = %d", w.Code)
	}
	s.Wait()

	var job types.Job
	w = do(r, http.MethodGet, "/api/render/job-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET = %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &job)
	if job.Status != types.JobDone || job.Output != "output/job-1.mp4" {
		t.Fatalf("job-1 = %+v", job)
	}

	w = do(r, http.MethodGet, "/api/render/job-2", "")
	json.Unmarshal(w.Body.Bytes(), &job)
	if job.Status != types.JobFailed || job.Error != "boom" {
		t.Fatalf("job-2 = %+v", job)
	}

	if w := do(r, http.MethodPost, "/api/render", `{"id":"job-1","text":"again"}`); w.Code != http.StatusConflict {
		t.Fatalf("duplicate id = %d", w.Code)
	}
}

func TestRender_BadRequests(t *testing.T) {
	var calls int32
	render := func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error) {
		atomic.AddInt32(&calls, 1)
		return &pipeline.Result{}, nil
	}
	s, r, _ := newTestServer(t, render, nil)

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"text":`},
		{"missing text", `{"id":"x"}`},
		{"blank text", `{"text":"   "}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if w := do(r, http.MethodPost, "/api/render", c.body); w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
	s.Wait()
	if calls != 0 {
		t.Fatalf("render called %d times", calls)
	}

	if w := do(r, http.MethodGet, "/api/render/unknown", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown job = %d", w.Code)
	}
}

func TestRender_GeneratesID(t *testing.T) {
	s, r, store := newTestServer(t, func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error) {
		return &pipeline.Result{ID: req.ID}, nil
	}, nil)

	w := do(r, http.MethodPost, "/api/render", `{"text":"no id here"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("POST = %d", w.Code)
	}
	s.Wait()
	var accepted map[string]string
	json.Unmarshal(w.Body.Bytes(), &accepted)
	if _, err := store.Get(context.Background(), accepted["job_id"]); err != nil {
		t.Fatalf("generated job not stored: %v", err)
	}
}

func TestRSSRefresh(t *testing.T) {
	done := make(chan struct{})
	feed := func(ctx context.Context) ([]string, error) {
		close(done)
		return []string{"a.mp4"}, nil
	}
	s, r, _ := newTestServer(t, func(context.Context, types.RenderRequest) (*pipeline.Result, error) { return nil, nil }, feed)

	if w := do(r, http.MethodPost, "/api/rss/refresh", ""); w.Code != http.StatusAccepted {
		t.Fatalf("refresh = %d", w.Code)
	}
	s.Wait()
	select {
	case <-done:
	default:
		t.Fatal("feed was not run")
	}

	_, noFeed, _ := newTestServer(t, func(context.Context, types.RenderRequest) (*pipeline.Result, error) { return nil, nil }, nil)
	if w := do(noFeed, http.MethodPost, "/api/rss/refresh", ""); w.Code != http.StatusNotFound {
		t.Fatalf("refresh without feed = %d", w.Code)
	}
}

// slowStore adds a round-trip delay to every call and refuses canceled
// contexts, as a networked store would.
type slowStore struct {
	*jobs.MemoryStore
	delay time.Duration
}

func (s slowStore) wait(ctx context.Context) error {
	time.Sleep(s.delay)
	return ctx.Err()
}

func (s slowStore) Create(ctx context.Context, job types.Job) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	return s.MemoryStore.Create(ctx, job)
}

func (s slowStore) Save(ctx context.Context, job types.Job) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	return s.MemoryStore.Save(ctx, job)
}

func (s slowStore) Get(ctx context.Context, id string) (types.Job, error) {
	if err := s.wait(ctx); err != nil {
		return types.Job{}, err
	}
	return s.MemoryStore.Get(ctx, id)
}

func TestRender_ConcurrentSameID(t *testing.T) {
	var renders atomic.Int32
	render := func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error) {
		renders.Add(1)
		return &pipeline.Result{ID: req.ID}, nil
	}
	store := slowStore{MemoryStore: jobs.NewMemoryStore(), delay: 5 * time.Millisecond}
	s, err := NewServer(context.Background(), Config{Render: render, Store: store})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	r := s.NewRouter()

	var (
		wg                 sync.WaitGroup
		accepted, conflict atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch w := do(r, http.MethodPost, "/api/render", `{"id":"same","text":"hello"}`); w.Code {
			case http.StatusAccepted:
				accepted.Add(1)
			case http.StatusConflict:
				conflict.Add(1)
			default:
				t.Errorf("unexpected status %d", w.Code)
			}
		}()
	}
	wg.Wait()
	s.Wait()

	if accepted.Load() != 1 || conflict.Load() != 9 {
		t.Fatalf("accepted=%d conflict=%d", accepted.Load(), conflict.Load())
	}
	if renders.Load() != 1 {
		t.Fatalf("rendered %d times", renders.Load())
	}
}

func TestRender_FailureRecordedAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := slowStore{MemoryStore: jobs.NewMemoryStore()}
	release := make(chan struct{})
	render := func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error) {
		<-release
		return nil, ctx.Err()
	}
	s, err := NewServer(ctx, Config{Render: render, Store: store})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if w := do(s.NewRouter(), http.MethodPost, "/api/render", `{"id":"late","text":"hello"}`); w.Code != http.StatusAccepted {
		t.Fatalf("POST = %d", w.Code)
	}
	cancel()
	close(release)
	s.Wait()

	job, err := store.MemoryStore.Get(context.Background(), "late")
	if err != nil || job.Status != types.JobFailed {
		t.Fatalf("job = %+v, %v", job, err)
	}
}
