package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"brainrot/jobs"
	"brainrot/pipeline"
	"brainrot/types"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

type recordingSender struct {
	jobs []types.Job
}

func (r *recordingSender) Send(job types.Job) error {
	r.jobs = append(r.jobs, job)
	return nil
}

func TestRenderHandler_Marking(t *testing.T) {
	failErr := errors.New("encoder crashed")
	var rendered []string
	render := func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error) {
		rendered = append(rendered, req.ID)
		switch req.ID {
		case "bad":
			return nil, failErr
		case "no-assets":
			return nil, fmt.Errorf("pick background: %w", types.ErrNoAssets)
		}
		return &pipeline.Result{ID: req.ID, Output: "output/" + req.ID + ".mp4"}, nil
	}
	store := jobs.NewMemoryStore()
	sender := &recordingSender{}
	h := NewRenderHandler(RenderHandlerConfig{Render: render, Tracker: jobs.NewTracker(store), Results: sender})

	cases := []struct {
		name     string
		message  string
		wantMark bool
		wantErr  error
	}{
		{"valid", `{"id":"ok","text":"hello world"}`, true, nil},
		{"empty text", `{"id":"empty","text":"   "}`, true, nil},
		{"invalid json", `{not json`, true, nil},
		{"transient render failure", `{"id":"bad","text":"hello"}`, false, failErr},
		{"terminal render failure", `{"id":"no-assets","text":"hello"}`, true, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mark, err := h.HandleMessage(context.Background(), []byte(c.message))
			if mark != c.wantMark {
				t.Fatalf("mark = %v, want %v", mark, c.wantMark)
			}
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("err = %v, want %v", err, c.wantErr)
			}
		})
	}

	if len(rendered) != 3 {
		t.Fatalf("render called for %v", rendered)
	}
	ok, err := store.Get(context.Background(), "ok")
	if err != nil || ok.Status != types.JobDone || ok.Output != "output/ok.mp4" {
		t.Fatalf("ok job = %+v, %v", ok, err)
	}
	bad, _ := store.Get(context.Background(), "bad")
	if bad.Status != types.JobFailed || bad.Error != failErr.Error() {
		t.Fatalf("bad job = %+v", bad)
	}
	if len(sender.jobs) != 2 || sender.jobs[0].ID != "ok" || sender.jobs[0].Status != types.JobDone {
		t.Fatalf("results sent = %+v", sender.jobs)
	}
	if failed := sender.jobs[1]; failed.ID != "no-assets" || failed.Status != types.JobFailed || failed.Error == "" {
		t.Fatalf("terminal failure result = %+v", failed)
	}
	if job, _ := store.Get(context.Background(), "no-assets"); job.Status != types.JobFailed {
		t.Fatalf("no-assets job = %+v", job)
	}
}

func TestRenderHandler_AssignsID(t *testing.T) {
	var got string
	h := NewRenderHandler(RenderHandlerConfig{Render: func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error) {
		got = req.ID
		return &pipeline.Result{}, nil
	}})
	if mark, err := h.HandleMessage(context.Background(), []byte(`{"text":"hi"}`)); !mark || err != nil {
		t.Fatalf("mark=%v err=%v", mark, err)
	}
	if got == "" {
		t.Fatal("expected generated id")
	}
}

func TestResultProducer_Send(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var job types.Job
		if err := json.Unmarshal(val, &job); err != nil {
			return err
		}
		if job.ID != "job-9" || job.Status != types.JobDone {
			return errors.New("unexpected job payload")
		}
		return nil
	})
	sp.ExpectSendMessageAndFail(errors.New("broker down"))

	p := NewResultProducerWith(sp, "render-results")
	if err := p.Send(types.Job{ID: "job-9", Status: types.JobDone}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := p.Send(types.Job{ID: "job-10"}); err == nil {
		t.Fatal("expected send failure")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestRenderHandler_FailureRecordedWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := cancelAwareStore{jobs.NewMemoryStore()}
	h := NewRenderHandler(RenderHandlerConfig{
		Render: func(context.Context, types.RenderRequest) (*pipeline.Result, error) {
			cancel()
			return nil, context.Canceled
		},
		Tracker: jobs.NewTracker(store),
	})
	if mark, _ := h.HandleMessage(ctx, []byte(`{"id":"late","text":"hello"}`)); mark {
		t.Fatal("canceled render should be redelivered")
	}
	if job, err := store.Get(context.Background(), "late"); err != nil || job.Status != types.JobFailed {
		t.Fatalf("job = %+v, %v", job, err)
	}
}

// cancelAwareStore refuses writes on canceled contexts like a networked store.
type cancelAwareStore struct {
	*jobs.MemoryStore
}

func (s cancelAwareStore) Save(ctx context.Context, job types.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemoryStore.Save(ctx, job)
}

func TestTypedMessageHandler_Terminal(t *testing.T) {
	permanent := errors.New("permanent")
	h := &TypedMessageHandler[types.RenderRequest]{
		Process: func(ctx context.Context, msg *types.RenderRequest) error {
			if msg.ID == "p" {
				return permanent
			}
			return errors.New("try again")
		},
	}
	if mark, err := h.HandleMessage(context.Background(), []byte(`{"id":"p"}`)); mark || err == nil {
		t.Fatalf("without classifier: mark=%v err=%v", mark, err)
	}
	h.Terminal = func(err error) bool { return errors.Is(err, permanent) }
	if mark, err := h.HandleMessage(context.Background(), []byte(`{"id":"p"}`)); !mark || err != nil {
		t.Fatalf("terminal: mark=%v err=%v", mark, err)
	}
	if mark, err := h.HandleMessage(context.Background(), []byte(`{"id":"t"}`)); mark || err == nil {
		t.Fatalf("transient: mark=%v err=%v", mark, err)
	}
	if mark, _ := h.HandleMessage(context.Background(), []byte(`{bad`)); mark {
		t.Fatal("undecodable message marked without AlwaysMark")
	}
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	marked []int64
}

func (f *fakeSession) Context() context.Context { return context.Background() }

func (f *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string) {
	f.marked = append(f.marked, msg.Offset)
}

func TestConsumer_HandleMarksAndCounts(t *testing.T) {
	c := &Consumer{handler: NewRenderHandler(RenderHandlerConfig{
		Render: func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error) {
			if req.ID == "retry" {
				return nil, errors.New("tts timeout")
			}
			return &pipeline.Result{ID: req.ID}, nil
		},
	})}
	session := &fakeSession{}
	c.handle(session, &sarama.ConsumerMessage{Offset: 1, Value: []byte(`{"id":"a","text":"hi"}`)})
	c.handle(session, &sarama.ConsumerMessage{Offset: 2, Value: []byte(`{"id":"retry","text":"hi"}`)})
	c.handle(session, &sarama.ConsumerMessage{Offset: 3, Value: []byte(`{"id":"b","text":""}`)})

	if len(session.marked) != 2 || session.marked[0] != 1 || session.marked[1] != 3 {
		t.Fatalf("marked offsets = %v", session.marked)
	}
	if st := c.Stats(); st.Marked != 2 || st.Unmarked != 1 {
		t.Fatalf("stats = %+v", st)
	}
}
