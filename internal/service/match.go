package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/matchday/matchday-server-go/internal/errors"
	"github.com/matchday/matchday-server-go/internal/model"
	"github.com/matchday/matchday-server-go/internal/roster"
)

const maxPickAttempts = 5

// Match pairs the requester with a random eligible group member for the
// day. The roster is fetched before the state lock is taken.
func (s *Service) Match(ctx context.Context, groupID, userID, userName, botID string) (*model.PartnerRecord, error) {
	members, err := s.roster.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.blocks.Contains(userID) {
		return nil, apperrors.UserBlocked(userID)
	}

	state := s.pairs.StateFor(groupID, s.today())
	if _, ok := state.Pairs[userID]; ok {
		return nil, apperrors.AlreadyPaired()
	}

	now := s.now()
	candidates := make([]roster.Member, 0, len(members))
	for _, m := range members {
		switch {
		case m.ID == userID || m.ID == botID:
		case state.HasUsed(m.ID):
		case s.blocks.Contains(m.ID):
		case s.cooldowns.IsBlocked(userID, m.ID, now):
		default:
			candidates = append(candidates, m)
		}
	}

	var target *roster.Member
	for attempt := 0; attempt < maxPickAttempts && len(candidates) > 0; attempt++ {
		i := s.intn(len(candidates))
		pick := candidates[i]
		if _, paired := state.Pairs[pick.ID]; !paired {
			target = &pick
			break
		}
		// A concurrent request paired this candidate moments earlier.
		candidates = append(candidates[:i], candidates[i+1:]...)
	}
	if target == nil {
		return nil, apperrors.NoCandidate()
	}

	prev := state.Clone()
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

	log.Info().
		Str("group", groupID).
		Str("user", userID).
		Str("partner", target.ID).
		Msg("pairing created")

	return &mine, nil
}

// Query returns the requester's active partner record for today.
func (s *Service) Query(groupID, userID string) (*model.PartnerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.pairs.StateFor(groupID, s.today())
	rec, ok := state.Pairs[userID]
	if !ok {
		return nil, apperrors.NotFound("partner")
	}
	return &rec, nil
}

func displayName(m roster.Member) string {
	if m.Card != "" {
		return m.Card
	}
	return m.Nickname
}
