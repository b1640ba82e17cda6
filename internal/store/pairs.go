package store

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/matchday/matchday-server-go/internal/model"
)

const pairsDocument = "pair_data"

// PairStore keeps the per-group, per-day pairing tables. It performs the
// lazy daily rollover: touching a group whose stored date is stale replaces
// its state with an empty one for the current day.
//
// PairStore does no locking of its own; the owning service serializes all
// access.
type PairStore struct {
	snap   *Snapshot
	groups map[string]*model.GroupState
}

func NewPairStore(snap *Snapshot) *PairStore {
	s := &PairStore{
		snap:   snap,
		groups: make(map[string]*model.GroupState),
	}
	s.load()
	return s
}

// legacyGroupState tolerates the two historical on-disk shapes: pair values
// that were bare partner-id strings, and records written before the
// isInitiator flag existed.
type legacyGroupState struct {
	Date  string                     `json:"date"`
	Pairs map[string]json.RawMessage `json:"pairs"`
	Used  []string                   `json:"used"`
}

type legacyPartnerRecord struct {
	PartnerID   string `json:"partnerId"`
	DisplayName string `json:"displayName"`
	IsInitiator *bool  `json:"isInitiator"`
	Locked      bool   `json:"locked"`
}

func (s *PairStore) load() {
	raw := make(map[string]legacyGroupState)
	if found, err := s.snap.Load(pairsDocument, &raw); err != nil || !found {
		if err != nil {
			log.Error().Err(err).Msg("failed to load pairing table")
		}
		return
	}
	for groupID, lg := range raw {
		state := model.NewGroupState(lg.Date)
		if lg.Used != nil {
			state.Used = lg.Used
		}
		for userID, rawPair := range lg.Pairs {
			rec, err := migratePartnerRecord(rawPair)
			if err != nil {
				log.Warn().Err(err).Str("group", groupID).Str("user", userID).
					Msg("dropping unreadable pairing record")
				continue
			}
			state.Pairs[userID] = rec
		}
		s.groups[groupID] = state
	}
}

func migratePartnerRecord(raw json.RawMessage) (model.PartnerRecord, error) {
	var legacy legacyPartnerRecord
	if err := json.Unmarshal(raw, &legacy); err == nil && legacy.PartnerID != "" {
		rec := model.PartnerRecord{
			PartnerID:   legacy.PartnerID,
			DisplayName: legacy.DisplayName,
			IsInitiator: true,
			Locked:      legacy.Locked,
		}
		// Records migrated from before the flag existed carry no reliable
		// role information; they default to initiator.
		if legacy.IsInitiator != nil {
			rec.IsInitiator = *legacy.IsInitiator
		}
		return rec, nil
	}

	// Oldest format: the pair value was just the partner id.
	var partnerID string
	if err := json.Unmarshal(raw, &partnerID); err != nil {
		return model.PartnerRecord{}, fmt.Errorf("unrecognized pairing record: %s", string(raw))
	}
	return model.PartnerRecord{
		PartnerID:   partnerID,
		DisplayName: fmt.Sprintf("unknown(%s)", partnerID),
		IsInitiator: true,
	}, nil
}

// StateFor returns the live state for a group on the given day, replacing
// stale state from a previous day with an empty table.
func (s *PairStore) StateFor(groupID, day string) *model.GroupState {
	state, ok := s.groups[groupID]
	if !ok || state.Date != day {
		state = model.NewGroupState(day)
		s.groups[groupID] = state
	}
	return state
}

// Peek returns the group's state without triggering a rollover, or nil.
func (s *PairStore) Peek(groupID string) *model.GroupState {
	return s.groups[groupID]
}

// Restore puts back a previously captured group state after a failed save.
func (s *PairStore) Restore(groupID string, state *model.GroupState) {
	if state == nil {
		delete(s.groups, groupID)
		return
	}
	s.groups[groupID] = state
}

// Reset drops all pairing state.
func (s *PairStore) Reset() {
	s.groups = make(map[string]*model.GroupState)
}

// ResetGroup drops one group's pairing state. It reports whether the group
// had any.
func (s *PairStore) ResetGroup(groupID string) bool {
	if _, ok := s.groups[groupID]; !ok {
		return false
	}
	delete(s.groups, groupID)
	return true
}

func (s *PairStore) Save() error {
	return s.snap.Save(pairsDocument, s.groups)
}
