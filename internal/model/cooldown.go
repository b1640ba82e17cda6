package model

import "time"

// CooldownRecord bars a pair of participants from being matched to each
// other until ExpireAt. A record whose Users holds a single id is a punitive
// full suspension rather than a mutual cooldown.
type CooldownRecord struct {
	Users    []string  `json:"users"`
	ExpireAt time.Time `json:"expireAt"`
}

// Matches reports whether the record covers the unordered pair {a, b}.
func (r CooldownRecord) Matches(a, b string) bool {
	if len(r.Users) != 2 {
		return false
	}
	return (r.Users[0] == a && r.Users[1] == b) || (r.Users[0] == b && r.Users[1] == a)
}

// Singleton reports whether the record is a punitive suspension.
func (r CooldownRecord) Singleton() bool {
	return len(r.Users) == 1
}

// Expired reports whether the record is inert at the given instant. Expired
// records may still be present until the next sweep, so callers re-check.
func (r CooldownRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpireAt)
}
