package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"nubit-transcribe/backend/internal/llm"
	"nubit-transcribe/backend/internal/metrics"
	"nubit-transcribe/backend/internal/transcribe"
)

// ErrInterrupted marks jobs cut short by worker shutdown. Their media was
// already consumed, so they are failed rather than left in flight.
var ErrInterrupted = errors.New("interrupted by shutdown")

// finalizeTimeout bounds the terminal save once the worker context is gone.
const finalizeTimeout = 5 * time.Second

// Analyzer is satisfied by *llm.Service.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string, mode llm.Mode) (*llm.Outcome, error)
}

// Broadcaster is satisfied by *realtime.Hub.
type Broadcaster interface {
	Broadcast(jobID string, payload any)
}

type Dequeuer interface {
	DequeueBatch(ctx context.Context, batchSize int) ([]QueueMessage, error)
}

type Worker struct {
	Queue       Dequeuer
	Store       Repository
	Transcriber transcribe.Backend
	Analyzer    Analyzer
	Hub         Broadcaster
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
	BatchSize   int
	Timeout     time.Duration
}

func (w *Worker) Start(ctx context.Context) {
	batch := w.BatchSize
	if batch <= 0 {
		batch = 10
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		items, err := w.Queue.DequeueBatch(ctx, batch)
		if err != nil {
			w.Logger.Warn().Err(err).Msg("dequeue jobs")
			sleep(ctx, 2*time.Second)
			continue
		}
		if len(items) == 0 {
			sleep(ctx, 500*time.Millisecond)
			continue
		}

		for _, msg := range items {
			if err := w.Process(ctx, msg); err != nil {
				w.Logger.Error().Err(err).Str("job_id", msg.JobID).Msg("process job")
			}
		}
	}
}

// Process runs one job to a terminal status. The returned error covers
// store failures only; pipeline failures are recorded on the job.
func (w *Worker) Process(ctx context.Context, msg QueueMessage) error {
	if ctx.Err() != nil {
		return w.interrupt(ctx, msg.JobID)
	}
	job, err := w.Store.Get(ctx, msg.JobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if job.Done() {
		return nil
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runErr := w.run(runCtx, job)
	if runErr != nil && ctx.Err() != nil {
		runErr = fmt.Errorf("%w: %w", ErrInterrupted, runErr)
	}
	return w.finish(ctx, job, runErr)
}

// interrupt fails a job that was dequeued after shutdown began.
func (w *Worker) interrupt(ctx context.Context, id string) error {
	finalCtx, cancel := detached(ctx)
	defer cancel()
	job, err := w.Store.Get(finalCtx, id)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if job.Done() {
		return nil
	}
	return w.finish(ctx, job, ErrInterrupted)
}

// finish records the terminal status. It saves on a context detached from
// ctx so a cancelled worker still reports the outcome.
func (w *Worker) finish(ctx context.Context, job *Job, runErr error) error {
	if runErr != nil {
		job.fail(runErr)
		w.Logger.Warn().Err(runErr).Str("job_id", job.ID).Msg("job failed")
	} else {
		job.advance(StatusCompleted, 100)
	}
	if w.Metrics != nil {
		w.Metrics.JobsFinished.WithLabelValues(string(job.Status)).Inc()
	}
	finalCtx, cancel := detached(ctx)
	defer cancel()
	return w.update(finalCtx, job)
}

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
}

func (w *Worker) run(ctx context.Context, job *Job) error {
	media, err := w.Store.TakeMedia(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("media unavailable: %w", err)
	}

	job.advance(StatusTranscribing, 10)
	if err := w.update(ctx, job); err != nil {
		return err
	}

	start := time.Now()
	transcript, err := w.Transcriber.Transcribe(ctx, transcribe.Request{
		Filename: job.Filename,
		Language: job.Language,
		Body:     bytes.NewReader(media),
	})
	w.Metrics.ObserveTranscription(w.Transcriber.Name(), err, start)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}
	job.Transcript = transcript.Text

	if !job.Analyze {
		return nil
	}
	job.advance(StatusAnalyzing, 60)
	if err := w.update(ctx, job); err != nil {
		return err
	}
	outcome, err := w.Analyzer.Analyze(ctx, transcript.Text, job.Mode)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	job.Outcome = outcome
	return nil
}

func (w *Worker) update(ctx context.Context, job *Job) error {
	if err := w.Store.Save(ctx, job); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	if w.Hub != nil {
		w.Hub.Broadcast(job.ID, EventFor(job))
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
