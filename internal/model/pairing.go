package model

// PartnerRecord is one side of an active pairing. The record stored under a
// participant describes that participant's partner, not the participant
// itself.
type PartnerRecord struct {
	PartnerID   string `json:"partnerId"`
	DisplayName string `json:"displayName"`
	IsInitiator bool   `json:"isInitiator"`
	Locked      bool   `json:"locked"`
}

// GroupState holds one group's pairings for a single calendar day. A Date
// that no longer matches the current day invalidates the whole structure.
type GroupState struct {
	Date  string                   `json:"date"`
	Pairs map[string]PartnerRecord `json:"pairs"`
	Used  []string                 `json:"used"`
}

// NewGroupState returns an empty state for the given day.
func NewGroupState(date string) *GroupState {
	return &GroupState{
		Date:  date,
		Pairs: make(map[string]PartnerRecord),
		Used:  []string{},
	}
}

// HasUsed reports whether the participant was already consumed as an
// initiator or match target today.
func (g *GroupState) HasUsed(userID string) bool {
	for _, id := range g.Used {
		if id == userID {
			return true
		}
	}
	return false
}

// MarkUsed records participants as consumed for the day. Duplicates are
// ignored.
func (g *GroupState) MarkUsed(userIDs ...string) {
	for _, id := range userIDs {
		if !g.HasUsed(id) {
			g.Used = append(g.Used, id)
		}
	}
}

// ClearUsed removes participants from the used set.
func (g *GroupState) ClearUsed(userIDs ...string) {
	filtered := g.Used[:0]
	for _, id := range g.Used {
		drop := false
		for _, rm := range userIDs {
			if id == rm {
				drop = true
				break
			}
		}
		if !drop {
			filtered = append(filtered, id)
		}
	}
	g.Used = filtered
}

// Clone returns a deep copy, used to capture a pre-mutation image so a failed
// persistence write can be rolled back.
func (g *GroupState) Clone() *GroupState {
	if g == nil {
		return nil
	}
	cp := &GroupState{
		Date:  g.Date,
		Pairs: make(map[string]PartnerRecord, len(g.Pairs)),
		Used:  append([]string{}, g.Used...),
	}
	for id, rec := range g.Pairs {
		cp.Pairs[id] = rec
	}
	return cp
}
