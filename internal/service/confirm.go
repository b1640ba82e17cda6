package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matchday/matchday-server-go/internal/audit"
	apperrors "github.com/matchday/matchday-server-go/internal/errors"
)

// ConfirmPhrase must be sent verbatim within the confirmation window to
// enable advanced features for a group.
const ConfirmPhrase = "I understand the risks of the advanced features and insist on enabling them"

const (
	confirmTimeout = 30 * time.Second

	// ConfirmSweepInterval is how often stale confirmation requests are
	// expired. Coarser than the deadline on purpose; a late phrase is
	// rejected by deadline regardless of when the sweep runs.
	ConfirmSweepInterval = 5 * time.Second
)

type pendingConfirmation struct {
	SessionRef  string
	RequestedAt time.Time
}

// ExpiredConfirmation identifies a request whose window lapsed, so the
// transport can notify the original context.
type ExpiredConfirmation struct {
	UserID     string
	SessionRef string
}

// RequestAdvanced opens a confirmation window for the requesting user. The
// returned flag reports whether the group already has advanced features
// enabled, in which case no window is opened.
func (s *Service) RequestAdvanced(groupID, userID, sessionRef string) (alreadyEnabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flags.Enabled(groupID) {
		return true
	}
	s.pending[userID] = pendingConfirmation{
		SessionRef:  sessionRef,
		RequestedAt: s.now(),
	}
	log.Info().Str("group", groupID).Str("user", userID).Msg("advanced enable requested")
	return false
}

// ConfirmAdvanced handles a possible confirmation phrase. It reports whether
// the message completed a pending request; a non-matching phrase, an unknown
// user, or a phrase arriving after the deadline are all silently ignored.
func (s *Service) ConfirmAdvanced(groupID, userID, phrase string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[userID]
	if !ok || phrase != ConfirmPhrase {
		return false, nil
	}
	delete(s.pending, userID)

	// No confirmation is honored past its deadline, even if the sweep has
	// not removed the entry yet.
	if s.now().Sub(entry.RequestedAt) > confirmTimeout {
		return false, nil
	}

	s.flags.Set(groupID, true)
	if err := s.flags.Save(); err != nil {
		s.flags.Set(groupID, false)
		return false, apperrors.PersistenceFailure(err)
	}

	audit.Log(audit.Event{
		Type:    audit.EventAdvancedEnabled,
		UserID:  userID,
		GroupID: groupID,
	})
	return true, nil
}

// DisableAdvanced turns advanced features off for a group.
func (s *Service) DisableAdvanced(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.flags.Enabled(groupID)
	s.flags.Set(groupID, false)
	if err := s.flags.Save(); err != nil {
		s.flags.Set(groupID, prev)
		return apperrors.PersistenceFailure(err)
	}

	audit.Log(audit.Event{
		Type:    audit.EventAdvancedDisabled,
		GroupID: groupID,
	})
	return nil
}

// AdvancedEnabled reports the durable flag for a group.
func (s *Service) AdvancedEnabled(groupID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags.Enabled(groupID)
}

// ExpireConfirmations drops every pending request past its deadline and
// returns them for notification.
func (s *Service) ExpireConfirmations() []ExpiredConfirmation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var expired []ExpiredConfirmation
	for userID, entry := range s.pending {
		if now.Sub(entry.RequestedAt) > confirmTimeout {
			expired = append(expired, ExpiredConfirmation{
				UserID:     userID,
				SessionRef: entry.SessionRef,
			})
			delete(s.pending, userID)
		}
	}
	return expired
}
