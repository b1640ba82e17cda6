package jobs

import (
	"time"

	"github.com/rs/zerolog/log"
)

// resetOffset is how far past local midnight the daily reset fires, leaving
// room for clock skew around the day boundary.
const resetOffset = 5 * time.Second

// Resetter is the slice of the game service the job needs.
type Resetter interface {
	DailyReset() error
}

// ResetJob runs the daily rollover shortly after midnight, local time. A
// failed run is logged and the job reschedules for the next day regardless.
type ResetJob struct {
	svc  Resetter
	now  func() time.Time
	done chan struct{}
}

func NewResetJob(svc Resetter) *ResetJob {
	return &ResetJob{
		svc:  svc,
		now:  time.Now,
		done: make(chan struct{}),
	}
}

func (j *ResetJob) Start() {
	go j.run()
	log.Info().Time("next_run", nextResetTime(j.now())).Msg("daily reset job started")
}

func (j *ResetJob) Stop() {
	close(j.done)
	log.Info().Msg("daily reset job stopped")
}

func (j *ResetJob) run() {
	for {
		wait := nextResetTime(j.now()).Sub(j.now())
		timer := time.NewTimer(wait)
		select {
		case <-j.done:
			timer.Stop()
			return
		case <-timer.C:
			if err := j.svc.DailyReset(); err != nil {
				log.Error().Err(err).Msg("daily reset failed")
			}
		}
	}
}

// nextResetTime returns the next local midnight plus the reset offset.
func nextResetTime(now time.Time) time.Time {
	next := now.Add(24 * time.Hour)
	midnight := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, now.Location())
	return midnight.Add(resetOffset)
}
