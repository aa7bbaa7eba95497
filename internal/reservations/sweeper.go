package reservations

import (
	"context"
	"time"

	"cinetix/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

// Sweeper reclaims expired holds on a fixed interval. It is safe to run
// alongside confirm/cancel: the guarded transitions make every race
// resolve to a single winner.
type Sweeper struct {
	service   Service
	interval  time.Duration
	scheduler gocron.Scheduler
	logger    *logger.Logger
}

func NewSweeper(service Service, interval time.Duration) (*Sweeper, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	return &Sweeper{
		service:   service,
		interval:  interval,
		scheduler: scheduler,
		logger:    logger.GetDefault(),
	}, nil
}

// Start registers the sweep job and begins the schedule.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweep),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.logger.Info("expiry sweeper started", "interval", s.interval.String())
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, failed := s.service.ExpireDue(ctx)
	s.logger.LogSweepCycle(ctx, expired, failed)
}
