package prayer

// Group is one prayer group as returned by the remote store. Immutable from
// the client's perspective; changes arrive only through re-fetch.
type Group struct {
	ID      string   `json:"groupId"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// MemberRecord holds one member's slots in server order. An absent record is
// represented as a MemberRecord with no slots, never as an error.
type MemberRecord struct {
	Member string `json:"member"`
	Slots  []Slot `json:"slots"`
}

// Visible returns the slots that are effectively visible, preserving each
// slot's server index.
func (r MemberRecord) Visible() []Slot {
	return r.filter(false)
}

// Archived returns the effectively hidden slots, preserving server indices.
func (r MemberRecord) Archived() []Slot {
	return r.filter(true)
}

func (r MemberRecord) filter(hidden bool) []Slot {
	out := make([]Slot, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.EffectiveHidden() == hidden {
			out = append(out, s)
		}
	}
	return out
}

// SlotByIndex returns a pointer into r.Slots for the slot carrying the
// given server index, or nil. Mutations through the pointer land in the
// record, so callers holding a clone can apply and then Put it back.
func (r MemberRecord) SlotByIndex(index int) *Slot {
	for i := range r.Slots {
		if r.Slots[i].Index == index {
			return &r.Slots[i]
		}
	}
	return nil
}

// Clone returns a deep copy so cached records can be handed out without
// sharing backing arrays.
func (r MemberRecord) Clone() MemberRecord {
	out := MemberRecord{Member: r.Member}
	if len(r.Slots) > 0 {
		out.Slots = append([]Slot(nil), r.Slots...)
	}
	return out
}
