package store

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matchday/matchday-server-go/internal/model"
)

const (
	cooldownDocument = "cooling_data"
	singletonPrefix  = "block_"
)

// CooldownStore tracks TTL-bounded pairing bans. Keys are derived from the
// unordered pair, so repeated breakups between the same two participants
// collapse to a single record carrying the newest expiry.
type CooldownStore struct {
	snap    *Snapshot
	records map[string]model.CooldownRecord
}

func NewCooldownStore(snap *Snapshot) *CooldownStore {
	s := &CooldownStore{
		snap:    snap,
		records: make(map[string]model.CooldownRecord),
	}
	if _, err := snap.Load(cooldownDocument, &s.records); err != nil {
		log.Error().Err(err).Msg("failed to load cooldown table")
	}
	if s.records == nil {
		s.records = make(map[string]model.CooldownRecord)
	}
	return s
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s-%s", a, b)
}

func singletonKey(userID string) string {
	return singletonPrefix + userID
}

// IsBlocked reports whether the unordered pair {a, b} is currently barred.
// Expiry is re-checked here; an expired record that has not been swept yet
// counts as absent.
func (s *CooldownStore) IsBlocked(a, b string, now time.Time) bool {
	for _, rec := range s.records {
		if rec.Matches(a, b) && !rec.Expired(now) {
			return true
		}
	}
	return false
}

// Impose creates or refreshes a mutual cooldown between two participants.
func (s *CooldownStore) Impose(a, b string, d time.Duration, now time.Time) {
	s.records[pairKey(a, b)] = model.CooldownRecord{
		Users:    []string{a, b},
		ExpireAt: now.Add(d),
	}
}

// ImposeSingleton creates or refreshes a punitive suspension record.
func (s *CooldownStore) ImposeSingleton(userID string, d time.Duration, now time.Time) {
	s.records[singletonKey(userID)] = model.CooldownRecord{
		Users:    []string{userID},
		ExpireAt: now.Add(d),
	}
}

// SweepExpired removes all inert records and returns how many were dropped.
func (s *CooldownStore) SweepExpired(now time.Time) int {
	dropped := 0
	for key, rec := range s.records {
		if rec.Expired(now) {
			delete(s.records, key)
			dropped++
		}
	}
	return dropped
}

// ExpiredSingletons returns the participants whose punitive suspension has
// lapsed, without removing the records.
func (s *CooldownStore) ExpiredSingletons(now time.Time) []string {
	var users []string
	for _, rec := range s.records {
		if rec.Singleton() && rec.Expired(now) {
			users = append(users, rec.Users[0])
		}
	}
	return users
}

// HasActiveSingleton reports whether a punitive suspension is still live.
func (s *CooldownStore) HasActiveSingleton(userID string, now time.Time) bool {
	rec, ok := s.records[singletonKey(userID)]
	return ok && !rec.Expired(now)
}

// DropSingletons removes all punitive records regardless of expiry.
func (s *CooldownStore) DropSingletons() {
	for key, rec := range s.records {
		if rec.Singleton() {
			delete(s.records, key)
		}
	}
}

// Snapshot captures the full record map for rollback.
func (s *CooldownStore) Snapshot() map[string]model.CooldownRecord {
	cp := make(map[string]model.CooldownRecord, len(s.records))
	for k, v := range s.records {
		cp[k] = v
	}
	return cp
}

// Restore puts back a previously captured record map.
func (s *CooldownStore) Restore(records map[string]model.CooldownRecord) {
	s.records = records
}

// Reset drops every record.
func (s *CooldownStore) Reset() {
	s.records = make(map[string]model.CooldownRecord)
}

func (s *CooldownStore) Save() error {
	return s.snap.Save(cooldownDocument, s.records)
}
