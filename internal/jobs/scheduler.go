package jobs

import (
	"context"
	"sync"
)

// Scheduler runs a fixed pool of workers until the context ends.
type Scheduler struct {
	wg sync.WaitGroup
}

func (s *Scheduler) Start(ctx context.Context, n int, newWorker func(id int) *Worker) {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		worker := newWorker(i)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			worker.Start(ctx)
		}()
	}
}

// Wait blocks until every worker has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
