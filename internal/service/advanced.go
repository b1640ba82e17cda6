package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/matchday/matchday-server-go/internal/errors"
	"github.com/matchday/matchday-server-go/internal/model"
)

// Wish directly assigns the requester a partner, bypassing randomness,
// cooldowns and the used set. If the target already holds a pairing it is
// dissolved first so the table never carries a dangling half-pair.
func (s *Service) Wish(ctx context.Context, groupID, userID, userName, targetID string) (*model.PartnerRecord, error) {
	if userID == targetID {
		return nil, apperrors.ValidationError("cannot use wish on yourself")
	}
	if err := s.precheckAdvanced(groupID, userID, opWish); err != nil {
		return nil, err
	}

	target, err := s.roster.MemberInfo(ctx, groupID, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NoSuchTarget(targetID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The lock was released for the roster call; re-validate.
	if err := s.checkAdvancedLocked(groupID, userID, opWish); err != nil {
		return nil, err
	}

	state := s.pairs.StateFor(groupID, s.today())
	prev := state.Clone()

	s.dissolve(state, targetID)
	mine := model.PartnerRecord{
		PartnerID:   target.ID,
		DisplayName: s.display(displayName(*target), target.ID),
		IsInitiator: true,
	}
	state.Pairs[userID] = mine
	state.Pairs[target.ID] = model.PartnerRecord{
		PartnerID:   userID,
		DisplayName: s.display(userName, userID),
		IsInitiator: false,
	}
	state.MarkUsed(userID, target.ID)

	if err := s.pairs.Save(); err != nil {
		s.pairs.Restore(groupID, prev)
		return nil, apperrors.PersistenceFailure(err)
	}
	s.usageFor(groupID, userID).Wish++

	log.Info().
		Str("group", groupID).
		Str("user", userID).
		Str("target", target.ID).
		Msg("wish granted")

	return &mine, nil
}

// Rob forcibly reassigns the target's current partner to the requester. The
// displaced partner becomes unpaired for the rest of the day; no cooldown is
// imposed, unlike a voluntary breakup.
func (s *Service) Rob(ctx context.Context, groupID, userID, userName, targetID string) (*model.PartnerRecord, error) {
	if userID == targetID {
		return nil, apperrors.ValidationError("cannot use rob on yourself")
	}
	if err := s.precheckAdvanced(groupID, userID, opRob); err != nil {
		return nil, err
	}

	target, err := s.roster.MemberInfo(ctx, groupID, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NoSuchTarget(targetID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAdvancedLocked(groupID, userID, opRob); err != nil {
		return nil, err
	}

	state := s.pairs.StateFor(groupID, s.today())
	targetRec, ok := state.Pairs[targetID]
	if !ok {
		return nil, apperrors.TargetUnpaired()
	}
	if targetRec.Locked {
		return nil, apperrors.TargetLocked()
	}
	if partner, ok := state.Pairs[targetRec.PartnerID]; ok && partner.Locked {
		return nil, apperrors.TargetLocked()
	}

	prev := state.Clone()

	s.dissolve(state, targetID)
	mine := model.PartnerRecord{
		PartnerID:   target.ID,
		DisplayName: s.display(displayName(*target), target.ID),
		IsInitiator: true,
	}
	state.Pairs[userID] = mine
	state.Pairs[target.ID] = model.PartnerRecord{
		PartnerID:   userID,
		DisplayName: s.display(userName, userID),
		IsInitiator: false,
	}
	state.MarkUsed(userID, target.ID)

	if err := s.pairs.Save(); err != nil {
		s.pairs.Restore(groupID, prev)
		return nil, apperrors.PersistenceFailure(err)
	}
	s.usageFor(groupID, userID).Rob++

	log.Info().
		Str("group", groupID).
		Str("user", userID).
		Str("target", target.ID).
		Str("displaced", targetRec.PartnerID).
		Msg("rob succeeded")

	return &mine, nil
}

// Lock immunizes the requester's pairing against rob for the rest of the
// day. Only the responder side may lock.
func (s *Service) Lock(groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.flags.Enabled(groupID) {
		return apperrors.FeatureDisabled()
	}
	if s.usageFor(groupID, userID).Lock >= s.opts.MaxDailyLocks {
		return apperrors.QuotaExceeded("lock")
	}

	state := s.pairs.StateFor(groupID, s.today())
	rec, ok := state.Pairs[userID]
	if !ok {
		return apperrors.NotFound("partner")
	}
	if rec.IsInitiator {
		return apperrors.OnlyResponderCanLock()
	}

	prev := state.Clone()

	rec.Locked = true
	state.Pairs[userID] = rec
	if partner, ok := state.Pairs[rec.PartnerID]; ok {
		partner.Locked = true
		state.Pairs[rec.PartnerID] = partner
	}

	if err := s.pairs.Save(); err != nil {
		s.pairs.Restore(groupID, prev)
		return apperrors.PersistenceFailure(err)
	}
	s.usageFor(groupID, userID).Lock++

	log.Info().
		Str("group", groupID).
		Str("user", userID).
		Str("partner", rec.PartnerID).
		Msg("pairing locked")

	return nil
}

type advancedOp int

const (
	opWish advancedOp = iota
	opRob
)

// precheckAdvanced validates the cheap preconditions before the roster call
// so obviously-doomed requests never leave the process.
func (s *Service) precheckAdvanced(groupID, userID string, op advancedOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkAdvancedLocked(groupID, userID, op)
}

func (s *Service) checkAdvancedLocked(groupID, userID string, op advancedOp) error {
	if !s.flags.Enabled(groupID) {
		return apperrors.FeatureDisabled()
	}
	u := s.usageFor(groupID, userID)
	switch op {
	case opWish:
		if u.Wish >= s.opts.MaxDailyWishes {
			return apperrors.QuotaExceeded("wish")
		}
	case opRob:
		if u.Rob >= s.opts.MaxDailyRobs {
			return apperrors.QuotaExceeded("rob")
		}
	}
	state := s.pairs.StateFor(groupID, s.today())
	if _, ok := state.Pairs[userID]; ok {
		return apperrors.AlreadyPaired()
	}
	return nil
}

// dissolve removes a participant's pairing and its mirror record. The used
// set is untouched; displaced participants stay consumed for the day.
func (s *Service) dissolve(state *model.GroupState, userID string) {
	rec, ok := state.Pairs[userID]
	if !ok {
		return
	}
	delete(state.Pairs, userID)
	if partner, ok := state.Pairs[rec.PartnerID]; ok && partner.PartnerID == userID {
		delete(state.Pairs, rec.PartnerID)
	}
}
