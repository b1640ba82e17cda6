package roster

import "strings"

// Member is one entry from a group roster lookup.
type Member struct {
	ID       string
	Nickname string
	Card     string
}

// DisplayInfo renders the member as "name(id)", preferring the group card
// over the bare nickname, matching how partners are labeled in replies.
func (m Member) DisplayInfo() string {
	name := m.Card
	if name == "" {
		name = m.Nickname
	}
	return name + "(" + m.ID + ")"
}

// FormatDisplay sanitizes and truncates a display name to maxLen runes,
// keeping the "(id)" suffix intact.
func FormatDisplay(name, id string, maxLen int) string {
	safe := strings.TrimSpace(strings.NewReplacer("\n", "", "\r", "").Replace(name))
	if maxLen > 0 {
		runes := []rune(safe)
		if len(runes) > maxLen {
			safe = string(runes[:maxLen]) + "…"
		}
	}
	return safe + "(" + id + ")"
}
