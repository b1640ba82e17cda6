package jobs

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matchday/matchday-server-go/internal/service"
)

// Notifier delivers the timeout notice back to the context that requested
// advanced features.
type Notifier func(expired service.ExpiredConfirmation)

// ConfirmationSweeper is the slice of the game service the sweep needs.
type ConfirmationSweeper interface {
	ExpireConfirmations() []service.ExpiredConfirmation
}

// ConfirmSweepJob periodically drops confirmation requests whose window has
// lapsed and notifies their originators.
type ConfirmSweepJob struct {
	svc      ConfirmationSweeper
	notify   Notifier
	interval time.Duration
	done     chan struct{}
}

func NewConfirmSweepJob(svc ConfirmationSweeper, notify Notifier, interval time.Duration) *ConfirmSweepJob {
	if interval <= 0 {
		interval = service.ConfirmSweepInterval
	}
	return &ConfirmSweepJob{
		svc:      svc,
		notify:   notify,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (j *ConfirmSweepJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("confirmation sweep started")
}

func (j *ConfirmSweepJob) Stop() {
	close(j.done)
	log.Info().Msg("confirmation sweep stopped")
}

func (j *ConfirmSweepJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *ConfirmSweepJob) sweep() {
	for _, expired := range j.svc.ExpireConfirmations() {
		log.Info().Str("user", expired.UserID).Msg("advanced enable request timed out")
		if j.notify != nil {
			j.notify(expired)
		}
	}
}
