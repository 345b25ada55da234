package jobs

import (
	"context"
	"fmt"
	"time"

	"nubit-transcribe/backend/internal/llm"
	"nubit-transcribe/backend/internal/metrics"
)

// Manager accepts uploads and hands them to the queue.
type Manager struct {
	Store   *Store
	Queue   *Queue
	Metrics *metrics.Metrics
}

func (m *Manager) Submit(ctx context.Context, filename, language string, mode llm.Mode, analyze bool, media []byte) (*Job, error) {
	job := NewJob(filename, language, mode, analyze)
	if err := m.Store.StageMedia(ctx, job.ID, media); err != nil {
		return nil, fmt.Errorf("stage media: %w", err)
	}
	if err := m.Store.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	if err := m.Queue.Enqueue(ctx, QueueMessage{JobID: job.ID, CreatedAt: time.Now().UTC()}); err != nil {
		return nil, fmt.Errorf("enqueue job: %w", err)
	}
	if m.Metrics != nil {
		m.Metrics.JobsQueued.Inc()
	}
	return job, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Job, error) {
	return m.Store.Get(ctx, id)
}
