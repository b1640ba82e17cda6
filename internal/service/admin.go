package service

import (
	"github.com/matchday/matchday-server-go/internal/audit"
	apperrors "github.com/matchday/matchday-server-go/internal/errors"
	"github.com/matchday/matchday-server-go/internal/model"
)

// Admin operations back the privileged command surface. They assume the
// caller was already authorized by the transport layer.

// ResetAll wipes every store, including in-memory advanced usage and the
// per-group feature flags.
func (s *Service) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairs.Reset()
	s.cooldowns.Reset()
	s.blocks.Reset()
	s.breakups.Reset()
	s.flags.Reset()
	s.usage = make(map[string]map[string]*model.AdvancedUsage)

	if err := s.saveAll(
		s.pairs.Save, s.cooldowns.Save, s.blocks.Save, s.breakups.Save, s.flags.Save,
	); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	audit.Log(audit.Event{Type: audit.EventDataReset, Details: map[string]interface{}{"scope": "all"}})
	return nil
}

// ResetPairs wipes the pairing table for every group.
func (s *Service) ResetPairs() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairs.Reset()
	if err := s.pairs.Save(); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	audit.Log(audit.Event{Type: audit.EventDataReset, Details: map[string]interface{}{"scope": "pairs"}})
	return nil
}

// ResetGroup wipes one group's pairing table. It reports whether the group
// had any state.
func (s *Service) ResetGroup(groupID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pairs.ResetGroup(groupID) {
		return false, nil
	}
	if err := s.pairs.Save(); err != nil {
		return false, apperrors.PersistenceFailure(err)
	}
	audit.Log(audit.Event{Type: audit.EventDataReset, GroupID: groupID, Details: map[string]interface{}{"scope": "group"}})
	return true, nil
}

// ResetCooldowns removes every cooldown record, mutual and punitive.
func (s *Service) ResetCooldowns() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cooldowns.Reset()
	if err := s.cooldowns.Save(); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	audit.Log(audit.Event{Type: audit.EventDataReset, Details: map[string]interface{}{"scope": "cooldowns"}})
	return nil
}

// ResetBlocks clears the block list along with the punitive cooldown
// records that track block expiry.
func (s *Service) ResetBlocks() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks.Reset()
	s.cooldowns.DropSingletons()
	if err := s.saveAll(s.blocks.Save, s.cooldowns.Save); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	audit.Log(audit.Event{Type: audit.EventDataReset, Details: map[string]interface{}{"scope": "blocks"}})
	return nil
}

// ResetBreakups clears every breakup counter bucket.
func (s *Service) ResetBreakups() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.breakups.Reset()
	if err := s.breakups.Save(); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	audit.Log(audit.Event{Type: audit.EventDataReset, Details: map[string]interface{}{"scope": "breakups"}})
	return nil
}

// ResetAdvanced forgets a group's advanced-features flag, returning it to
// the not-yet-enabled state.
func (s *Service) ResetAdvanced(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags.Delete(groupID)
	if err := s.flags.Save(); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	audit.Log(audit.Event{Type: audit.EventDataReset, GroupID: groupID, Details: map[string]interface{}{"scope": "advanced_flag"}})
	return nil
}

// BlockUser suspends a participant from all matchmaking. It reports whether
// the participant was newly blocked.
func (s *Service) BlockUser(userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.blocks.Add(userID) {
		return false, nil
	}
	if err := s.blocks.Save(); err != nil {
		s.blocks.Remove(userID)
		return false, apperrors.PersistenceFailure(err)
	}
	audit.Log(audit.Event{Type: audit.EventAdminBlock, UserID: userID})
	return true, nil
}

// SetCooldownHours adjusts the default mutual cooldown duration.
func (s *Service) SetCooldownHours(hours int) error {
	if hours < 1 || hours > 720 {
		return apperrors.InvalidInput("cooldown hours", "must be between 1 and 720")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opts.CooldownHours = hours
	audit.Log(audit.Event{Type: audit.EventCooldownChanged, Details: map[string]interface{}{"hours": hours}})
	return nil
}
