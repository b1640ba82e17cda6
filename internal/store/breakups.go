package store

import (
	"github.com/rs/zerolog/log"
)

const breakupsDocument = "breakup_counts"

// BreakupStore counts voluntary un-pairings per participant per day. Only
// the current day's bucket is live; older buckets are pruned at rollover.
type BreakupStore struct {
	snap    *Snapshot
	buckets map[string]map[string]int
}

func NewBreakupStore(snap *Snapshot) *BreakupStore {
	s := &BreakupStore{
		snap:    snap,
		buckets: make(map[string]map[string]int),
	}
	if _, err := snap.Load(breakupsDocument, &s.buckets); err != nil {
		log.Error().Err(err).Msg("failed to load breakup counters")
	}
	if s.buckets == nil {
		s.buckets = make(map[string]map[string]int)
	}
	return s
}

func (s *BreakupStore) CountFor(day, userID string) int {
	return s.buckets[day][userID]
}

func (s *BreakupStore) Increment(day, userID string) int {
	bucket, ok := s.buckets[day]
	if !ok {
		bucket = make(map[string]int)
		s.buckets[day] = bucket
	}
	bucket[userID]++
	return bucket[userID]
}

// RetainOnly drops every bucket except the given day's. It reports how many
// buckets were pruned.
func (s *BreakupStore) RetainOnly(day string) int {
	pruned := 0
	for d := range s.buckets {
		if d != day {
			delete(s.buckets, d)
			pruned++
		}
	}
	return pruned
}

// Snapshot captures the counters for rollback.
func (s *BreakupStore) Snapshot() map[string]map[string]int {
	cp := make(map[string]map[string]int, len(s.buckets))
	for day, bucket := range s.buckets {
		inner := make(map[string]int, len(bucket))
		for id, n := range bucket {
			inner[id] = n
		}
		cp[day] = inner
	}
	return cp
}

// Restore puts back previously captured counters.
func (s *BreakupStore) Restore(buckets map[string]map[string]int) {
	s.buckets = buckets
}

func (s *BreakupStore) Reset() {
	s.buckets = make(map[string]map[string]int)
}

func (s *BreakupStore) Save() error {
	return s.snap.Save(breakupsDocument, s.buckets)
}
