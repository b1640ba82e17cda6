package service

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/matchday/matchday-server-go/internal/model"
)

// DailyReset rotates day-scoped counters and purges expired records. It is
// idempotent: a second run on the same day is a no-op. The pairing table
// itself rolls over lazily and needs no work here.
func (s *Service) DailyReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := s.today()

	prunedBuckets := s.breakups.RetainOnly(today)

	// A lapsed punitive suspension lifts the block along with its record.
	lapsed := s.cooldowns.ExpiredSingletons(now)
	for _, userID := range lapsed {
		s.blocks.Remove(userID)
	}

	sweptRecords := s.cooldowns.SweepExpired(now)
	s.usage = make(map[string]map[string]*model.AdvancedUsage)

	var errs []error
	if prunedBuckets > 0 {
		if err := s.breakups.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(lapsed) > 0 {
		if err := s.blocks.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	if sweptRecords > 0 {
		if err := s.cooldowns.Save(); err != nil {
			errs = append(errs, err)
		}
	}

	log.Info().
		Int("pruned_breakup_buckets", prunedBuckets).
		Int("lifted_blocks", len(lapsed)).
		Int("swept_cooldowns", sweptRecords).
		Msg("daily reset complete")

	return errors.Join(errs...)
}
