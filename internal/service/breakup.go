package service

import (
	"github.com/rs/zerolog/log"

	"github.com/matchday/matchday-server-go/internal/audit"
	apperrors "github.com/matchday/matchday-server-go/internal/errors"
)

// BreakupResult reports the outcome of a voluntary un-pairing.
type BreakupResult struct {
	Refused       bool
	Count         int
	PartnerID     string
	CooldownHours int
	BlockHours    int
}

// Breakup dissolves the requester's pairing and imposes a mutual cooldown.
// A requester already at the daily maximum is refused and punitively
// blocked instead; the pairing stays intact in that case.
func (s *Service) Breakup(groupID, userID string) (*BreakupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.today()
	state := s.pairs.StateFor(groupID, day)
	rec, ok := state.Pairs[userID]
	if !ok {
		return nil, apperrors.NotFound("partner")
	}

	count := s.breakups.CountFor(day, userID)
	if count >= s.opts.MaxDailyBreakups {
		prevBlocks := s.blocks.Snapshot()
		prevCooldowns := s.cooldowns.Snapshot()

		s.blocks.Add(userID)
		s.cooldowns.ImposeSingleton(userID, s.blockDuration(), s.now())

		if err := s.saveAll(s.blocks.Save, s.cooldowns.Save); err != nil {
			s.blocks.Restore(prevBlocks)
			s.cooldowns.Restore(prevCooldowns)
			return nil, apperrors.PersistenceFailure(err)
		}

		audit.Log(audit.Event{
			Type:    audit.EventAutoBlock,
			UserID:  userID,
			GroupID: groupID,
			Details: map[string]interface{}{
				"breakups_today": count,
				"block_hours":    s.opts.BlockHours,
			},
		})

		return &BreakupResult{
			Refused:    true,
			Count:      count,
			BlockHours: s.opts.BlockHours,
		}, nil
	}

	partnerID := rec.PartnerID
	prevState := state.Clone()
	prevCooldowns := s.cooldowns.Snapshot()
	prevBreakups := s.breakups.Snapshot()

	delete(state.Pairs, userID)
	if partner, ok := state.Pairs[partnerID]; ok && partner.PartnerID == userID {
		delete(state.Pairs, partnerID)
	}
	state.ClearUsed(userID, partnerID)

	s.cooldowns.Impose(userID, partnerID, s.cooldownDuration(), s.now())
	newCount := s.breakups.Increment(day, userID)

	if err := s.saveAll(s.pairs.Save, s.cooldowns.Save, s.breakups.Save); err != nil {
		s.pairs.Restore(groupID, prevState)
		s.cooldowns.Restore(prevCooldowns)
		s.breakups.Restore(prevBreakups)
		return nil, apperrors.PersistenceFailure(err)
	}

	log.Info().
		Str("group", groupID).
		Str("user", userID).
		Str("partner", partnerID).
		Int("breakups_today", newCount).
		Msg("pairing dissolved")

	return &BreakupResult{
		Count:         newCount,
		PartnerID:     partnerID,
		CooldownHours: s.opts.CooldownHours,
	}, nil
}

// saveAll runs persistence writes in order, stopping at the first failure.
func (s *Service) saveAll(saves ...func() error) error {
	for _, save := range saves {
		if err := save(); err != nil {
			return err
		}
	}
	return nil
}
