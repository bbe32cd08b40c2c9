package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/services"
)

// Sweeper periodically closes study sessions left open longer than the idle
// timeout, applying the same stats fold as an explicit close.
type Sweeper struct {
	scheduler *gocron.Scheduler
	sessions  services.SessionService
	interval  time.Duration
	idleFor   time.Duration
	log       *logger.Logger
}

// NewSweeper creates a sweeper checking every interval for sessions idle
// longer than idleFor.
func NewSweeper(sessions services.SessionService, interval, idleFor time.Duration) *Sweeper {
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		sessions:  sessions,
		interval:  interval,
		idleFor:   idleFor,
		log:       logger.Default().WithPrefix("sweeper"),
	}
}

// Start begins the periodic sweep in a non-blocking manner.
func (s *Sweeper) Start() error {
	s.log.Info("starting session sweeper: every %s, idle timeout %s", s.interval, s.idleFor)
	if _, err := s.scheduler.Every(s.interval).Do(s.sweep); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates the sweep schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.log.Info("stopping session sweeper")
	s.scheduler.Stop()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = logger.NewContext(ctx, s.log)

	n, err := s.sessions.CloseStaleSessions(ctx, s.idleFor)
	if err != nil {
		s.log.Error("sweep failed: %v", err)
		return
	}
	if n > 0 {
		s.log.Info("sweep closed %d stale sessions", n)
	}
}
