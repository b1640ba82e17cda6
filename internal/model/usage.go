package model

// AdvancedUsage counts a participant's advanced operations for the current
// day. Kept entirely in memory and cleared at the daily rollover.
type AdvancedUsage struct {
	Wish int
	Rob  int
	Lock int
}
