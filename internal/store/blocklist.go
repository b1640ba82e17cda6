package store

import (
	"sort"

	"github.com/rs/zerolog/log"
)

const blocklistDocument = "blocked_users"

// BlockStore is the set of participants suspended from all matchmaking,
// persisted as a plain JSON array of ids.
type BlockStore struct {
	snap  *Snapshot
	users map[string]struct{}
}

func NewBlockStore(snap *Snapshot) *BlockStore {
	s := &BlockStore{
		snap:  snap,
		users: make(map[string]struct{}),
	}
	var ids []string
	if _, err := snap.Load(blocklistDocument, &ids); err != nil {
		log.Error().Err(err).Msg("failed to load block list")
	}
	for _, id := range ids {
		s.users[id] = struct{}{}
	}
	return s
}

func (s *BlockStore) Contains(userID string) bool {
	_, ok := s.users[userID]
	return ok
}

// Add suspends a participant. It reports whether the participant was newly
// added.
func (s *BlockStore) Add(userID string) bool {
	if _, ok := s.users[userID]; ok {
		return false
	}
	s.users[userID] = struct{}{}
	return true
}

func (s *BlockStore) Remove(userID string) {
	delete(s.users, userID)
}

func (s *BlockStore) List() []string {
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot captures the set for rollback.
func (s *BlockStore) Snapshot() map[string]struct{} {
	cp := make(map[string]struct{}, len(s.users))
	for id := range s.users {
		cp[id] = struct{}{}
	}
	return cp
}

// Restore puts back a previously captured set.
func (s *BlockStore) Restore(users map[string]struct{}) {
	s.users = users
}

func (s *BlockStore) Reset() {
	s.users = make(map[string]struct{})
}

func (s *BlockStore) Save() error {
	return s.snap.Save(blocklistDocument, s.List())
}
