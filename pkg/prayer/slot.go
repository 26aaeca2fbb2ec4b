package prayer

import (
	"strings"

	"prayteam/pkg/glyph"
)

// Visibility is the explicit per-slot visibility column. Older rows predate
// the column and leave it empty, which reads as Show.
type Visibility string

const (
	Show   Visibility = "Show"
	Hidden Visibility = "Hidden"
)

// Hidden reports whether the explicit visibility field says hidden.
func (v Visibility) Hidden() bool {
	return v == Hidden
}

// Slot is one prayer entry. Index is the server-assigned stable slot index
// used for all write operations; it never tracks the slot's position in a
// filtered display list.
type Slot struct {
	Text       string       `json:"text"`
	Status     glyph.Status `json:"status"`
	Note       string       `json:"note,omitempty"`
	Visibility Visibility   `json:"visibility,omitempty"`
	RecordedAt string       `json:"recordedAt,omitempty"`
	Index      int          `json:"index"`
}

// New returns a freshly added slot in the state the backend would assign it:
// pending, visible, timestamped now on the client.
func New(text string, index int, recordedAt string) Slot {
	return Slot{
		Text:       strings.TrimSpace(text),
		Status:     glyph.Pending,
		Visibility: Show,
		RecordedAt: recordedAt,
		Index:      index,
	}
}

// EffectiveHidden merges the two historical visibility encodings: a slot is
// hidden if the legacy status sentinel says so OR the explicit visibility
// field says so. This is a compatibility shim; it is the only place the two
// signals are combined.
func (s Slot) EffectiveHidden() bool {
	return s.Status.Hidden() || s.Visibility.Hidden()
}
