package domain

import "strings"

// RequiredSlots is the ordered list of slot names that must all be
// filled before a booking can be finalized
type RequiredSlots []string

// ParseRequiredSlots parses a comma-separated slot list, dropping blanks
// and duplicates while keeping the first occurrence order
func ParseRequiredSlots(raw string) RequiredSlots {
	return NewRequiredSlots(strings.Split(raw, ","))
}

// NewRequiredSlots normalizes slot names (trimmed, no blanks, no duplicates)
func NewRequiredSlots(names []string) RequiredSlots {
	seen := make(map[string]struct{}, len(names))
	slots := make(RequiredSlots, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		slots = append(slots, name)
	}
	return slots
}

// Contains returns true if the slot is part of the required set
func (r RequiredSlots) Contains(slot string) bool {
	for _, s := range r {
		if s == slot {
			return true
		}
	}
	return false
}

// Missing returns required slots that are absent or empty in filled,
// preserving the configured order
func (r RequiredSlots) Missing(filled map[string]string) []string {
	missing := make([]string, 0, len(r))
	for _, slot := range r {
		if filled[slot] == "" {
			missing = append(missing, slot)
		}
	}
	return missing
}

// Copy returns an independent copy of the slot list
func (r RequiredSlots) Copy() []string {
	out := make([]string, len(r))
	copy(out, r)
	return out
}

// Pick returns the non-empty values of filled whose keys belong to the
// required set. Keys outside the set are dropped.
func (r RequiredSlots) Pick(filled map[string]string) map[string]string {
	out := make(map[string]string, len(r))
	for _, slot := range r {
		if v := filled[slot]; v != "" {
			out[slot] = v
		}
	}
	return out
}
