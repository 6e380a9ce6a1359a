package domain

import "time"

// Booking represents a finalized appointment request.
// Slot values are keyed by slot name; the set of keys is the required
// slot set that was active when the booking was created.
type Booking struct {
	ID        int64
	Platform  Platform
	UserID    string
	Slots     map[string]string
	CreatedAt time.Time
}

// Value returns the value of a slot, or an empty string if it is not set
func (b *Booking) Value(slot string) string {
	if b.Slots == nil {
		return ""
	}
	return b.Slots[slot]
}

// Values returns slot values in the order of the given required slot set
func (b *Booking) Values(required RequiredSlots) []string {
	values := make([]string, 0, len(required))
	for _, slot := range required {
		values = append(values, b.Value(slot))
	}
	return values
}

// IsComplete returns true if every required slot has a non-empty value
func (b *Booking) IsComplete(required RequiredSlots) bool {
	return len(required.Missing(b.Slots)) == 0
}
