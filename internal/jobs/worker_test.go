package jobs

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nubit-transcribe/backend/internal/llm"
	"nubit-transcribe/backend/internal/transcribe"
)

type memoryRepo struct {
	mu    sync.Mutex
	jobs  map[string]Job
	media map[string][]byte
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{jobs: map[string]Job{}, media: map[string][]byte{}}
}

func (m *memoryRepo) Get(ctx context.Context, id string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &job, nil
}

func (m *memoryRepo) Save(ctx context.Context, job *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memoryRepo) TakeMedia(ctx context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.media[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.media, id)
	return data, nil
}

type stubBackend struct {
	text string
	err  error
	got  []byte
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Transcribe(ctx context.Context, req transcribe.Request) (*transcribe.Transcript, error) {
	s.got, _ = io.ReadAll(req.Body)
	if s.err != nil {
		return nil, s.err
	}
	return &transcribe.Transcript{Text: s.text, Language: req.Language, Backend: "stub"}, nil
}

type localAnalyzer struct{}

func (localAnalyzer) Analyze(ctx context.Context, transcript string, mode llm.Mode) (*llm.Outcome, error) {
	return &llm.Outcome{Source: llm.SourceLocal, Provider: "local", Text: "## Summary"}, nil
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Broadcast(jobID string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, payload.(Event))
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, event := range r.events {
		out[i] = event.Type + ":" + string(event.Status)
	}
	return out
}

func seed(t *testing.T, repo *memoryRepo, analyze bool) *Job {
	t.Helper()
	job := NewJob("meeting.mp3", "en", llm.ModeAuto, analyze)
	require.NoError(t, repo.Save(context.Background(), job))
	repo.media[job.ID] = []byte("audio-bytes")
	return job
}

func TestNewJob(t *testing.T) {
	job := NewJob("a.wav", "fr", llm.ModeLocal, true)
	_, err := uuid.Parse(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, job.Status)
	assert.False(t, job.Done())
	assert.Equal(t, "job:"+job.ID, jobKey(job.ID))
	assert.Equal(t, "job:"+job.ID+":media", mediaKey(job.ID))
}

func TestWorkerProcessCompletes(t *testing.T) {
	repo := newMemoryRepo()
	job := seed(t, repo, true)
	backend := &stubBackend{text: "We agreed on the plan."}
	hub := &recorder{}
	worker := &Worker{Store: repo, Transcriber: backend, Analyzer: localAnalyzer{}, Hub: hub, Logger: zerolog.Nop()}

	require.NoError(t, worker.Process(context.Background(), QueueMessage{JobID: job.ID}))

	saved, err := repo.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, saved.Status)
	assert.Equal(t, 100, saved.Progress)
	assert.Equal(t, "We agreed on the plan.", saved.Transcript)
	require.NotNil(t, saved.Outcome)
	assert.Equal(t, llm.SourceLocal, saved.Outcome.Source)
	assert.Equal(t, []byte("audio-bytes"), backend.got)
	assert.Equal(t, []string{
		"job.progress:transcribing",
		"job.progress:analyzing",
		"job.completed:completed",
	}, hub.types())

	_, err = repo.TakeMedia(context.Background(), job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkerProcessSkipsAnalysis(t *testing.T) {
	repo := newMemoryRepo()
	job := seed(t, repo, false)
	worker := &Worker{Store: repo, Transcriber: &stubBackend{text: "hello"}, Logger: zerolog.Nop()}

	require.NoError(t, worker.Process(context.Background(), QueueMessage{JobID: job.ID}))
	saved, _ := repo.Get(context.Background(), job.ID)
	assert.Equal(t, StatusCompleted, saved.Status)
	assert.Nil(t, saved.Outcome)
}

func TestWorkerProcessFailure(t *testing.T) {
	repo := newMemoryRepo()
	job := seed(t, repo, true)
	hub := &recorder{}
	worker := &Worker{Store: repo, Transcriber: &stubBackend{err: transcribe.ErrEmptyTranscript}, Hub: hub, Logger: zerolog.Nop()}

	require.NoError(t, worker.Process(context.Background(), QueueMessage{JobID: job.ID}))
	saved, _ := repo.Get(context.Background(), job.ID)
	assert.Equal(t, StatusFailed, saved.Status)
	assert.Contains(t, saved.Error, "no result returned")
	assert.Equal(t, []string{"job.progress:transcribing", "job.failed:failed"}, hub.types())
}

func TestWorkerProcessMissingMedia(t *testing.T) {
	repo := newMemoryRepo()
	job := NewJob("a.mp3", "en", llm.ModeAuto, false)
	require.NoError(t, repo.Save(context.Background(), job))
	worker := &Worker{Store: repo, Transcriber: &stubBackend{}, Logger: zerolog.Nop()}

	require.NoError(t, worker.Process(context.Background(), QueueMessage{JobID: job.ID}))
	saved, _ := repo.Get(context.Background(), job.ID)
	assert.Equal(t, StatusFailed, saved.Status)
	assert.Contains(t, saved.Error, "media unavailable")
}

func TestWorkerProcessUnknownJob(t *testing.T) {
	worker := &Worker{Store: newMemoryRepo(), Logger: zerolog.Nop()}
	err := worker.Process(context.Background(), QueueMessage{JobID: "missing"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

type onceQueue struct {
	mu    sync.Mutex
	items []QueueMessage
}

func (q *onceQueue) DequeueBatch(ctx context.Context, n int) ([]QueueMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items, nil
}

func TestSchedulerDrainsQueue(t *testing.T) {
	repo := newMemoryRepo()
	job := seed(t, repo, false)
	queue := &onceQueue{items: []QueueMessage{{JobID: job.ID}}}
	hub := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	var scheduler Scheduler
	scheduler.Start(ctx, 1, func(int) *Worker {
		return &Worker{Queue: queue, Store: repo, Transcriber: &stubBackend{text: "hi"}, Hub: hub, Logger: zerolog.Nop()}
	})

	require.Eventually(t, func() bool {
		saved, err := repo.Get(context.Background(), job.ID)
		return err == nil && saved.Done()
	}, time.Second*2, 10*time.Millisecond)
	cancel()
	scheduler.Wait()
}

// ctxRepo fails once its context is done, like the Redis client.
type ctxRepo struct {
	*memoryRepo
}

func (c *ctxRepo) Get(ctx context.Context, id string) (*Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.memoryRepo.Get(ctx, id)
}

func (c *ctxRepo) Save(ctx context.Context, job *Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.memoryRepo.Save(ctx, job)
}

func (c *ctxRepo) TakeMedia(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.memoryRepo.TakeMedia(ctx, id)
}

type blockingBackend struct {
	started chan struct{}
}

func (b *blockingBackend) Name() string { return "blocking" }

func (b *blockingBackend) Transcribe(ctx context.Context, req transcribe.Request) (*transcribe.Transcript, error) {
	close(b.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWorkerProcessInterruptedMidTranscription(t *testing.T) {
	repo := newMemoryRepo()
	job := seed(t, repo, true)
	backend := &blockingBackend{started: make(chan struct{})}
	hub := &recorder{}
	worker := &Worker{Store: &ctxRepo{repo}, Transcriber: backend, Analyzer: localAnalyzer{}, Hub: hub, Logger: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- worker.Process(ctx, QueueMessage{JobID: job.ID}) }()

	select {
	case <-backend.started:
	case <-time.After(2 * time.Second):
		t.Fatal("transcription never started")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Process did not return after cancellation")
	}

	saved, err := repo.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, saved.Status)
	assert.Equal(t, 10, saved.Progress)
	assert.True(t, strings.HasPrefix(saved.Error, ErrInterrupted.Error()), saved.Error)
	assert.Equal(t, []string{"job.progress:transcribing", "job.failed:failed"}, hub.types())
}

func TestWorkerProcessAfterShutdown(t *testing.T) {
	repo := newMemoryRepo()
	job := seed(t, repo, false)
	hub := &recorder{}
	worker := &Worker{Store: &ctxRepo{repo}, Transcriber: &stubBackend{text: "never"}, Hub: hub, Logger: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, worker.Process(ctx, QueueMessage{JobID: job.ID}))

	saved, err := repo.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, saved.Status)
	assert.Equal(t, ErrInterrupted.Error(), saved.Error)
	assert.Equal(t, []string{"job.failed:failed"}, hub.types())
}

func TestWorkerProcessTimeoutStillSaves(t *testing.T) {
	repo := newMemoryRepo()
	job := seed(t, repo, false)
	worker := &Worker{
		Store:       &ctxRepo{repo},
		Transcriber: &blockingBackend{started: make(chan struct{})},
		Logger:      zerolog.Nop(),
		Timeout:     20 * time.Millisecond,
	}

	require.NoError(t, worker.Process(context.Background(), QueueMessage{JobID: job.ID}))
	saved, err := repo.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, saved.Status)
	assert.Contains(t, saved.Error, "deadline exceeded")
	assert.NotContains(t, saved.Error, ErrInterrupted.Error())
}
