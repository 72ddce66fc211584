package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// scheduler wraps gocron for the daemon's periodic tasks.
type scheduler struct {
	inner gocron.Scheduler
}

func newScheduler() (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &scheduler{inner: s}, nil
}

// every registers a named periodic task.
func (s *scheduler) every(interval time.Duration, name string, task func(context.Context)) error {
	_, err := s.inner.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *scheduler) start() { s.inner.Start() }

func (s *scheduler) stop() error { return s.inner.Shutdown() }
