package store

import (
	"github.com/rs/zerolog/log"
)

const flagsDocument = "advanced_enabled"

// FlagStore holds the durable per-group advanced-features switch.
type FlagStore struct {
	snap  *Snapshot
	flags map[string]bool
}

func NewFlagStore(snap *Snapshot) *FlagStore {
	s := &FlagStore{
		snap:  snap,
		flags: make(map[string]bool),
	}
	if _, err := snap.Load(flagsDocument, &s.flags); err != nil {
		log.Error().Err(err).Msg("failed to load advanced-enabled flags")
	}
	if s.flags == nil {
		s.flags = make(map[string]bool)
	}
	return s
}

func (s *FlagStore) Enabled(groupID string) bool {
	return s.flags[groupID]
}

func (s *FlagStore) Set(groupID string, enabled bool) {
	s.flags[groupID] = enabled
}

// Delete forgets a group's flag entirely, distinct from setting it false.
func (s *FlagStore) Delete(groupID string) {
	delete(s.flags, groupID)
}

func (s *FlagStore) Reset() {
	s.flags = make(map[string]bool)
}

func (s *FlagStore) Save() error {
	return s.snap.Save(flagsDocument, s.flags)
}
