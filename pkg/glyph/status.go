package glyph

import "fmt"

// Glyph pairs a stored status token with its display symbol.
type Glyph struct {
	Token    string
	Symbol   string
	Meaning  string
	Terminal bool
}

const (
	escape        = "\x1b"
	resetCode     = 0
	boldCode      = 1
	italicCode    = 3
	underlineCode = 4
	strikeCode    = 9
)

func Strike(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, strikeCode, in, escape, resetCode)
}

func Bold(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, boldCode, in, escape, resetCode)
}

func Underline(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, underlineCode, in, escape, resetCode)
}

// Status is one of the stored response states of a prayer slot. The backend
// stores the Korean token strings; Status is the typed view of that column.
type Status int

const (
	Pending Status = iota
	Answered
	Redirected
	Declined

	// Archived is the reserved fifth token written back through the status
	// channel to hide a slot. Older rows only understand this encoding.
	Archived
	// LegacyHidden is an historical sentinel still present in stored rows.
	// It is never written by current code.
	LegacyHidden
)

const (
	tokenPending      = "기대중"
	tokenAnswered     = "응답됨"
	tokenRedirected   = "다른 방향으로 이끌심"
	tokenDeclined     = "거절하심"
	tokenArchived     = "보관됨"
	tokenLegacyHidden = "숨김"
)

func DefaultGlyphs() []Glyph {
	g := make([]Glyph, 0, 6)

	g = append(g, Glyph{
		Token:   tokenPending,
		Symbol:  "⏳",
		Meaning: "pending",
	}, Glyph{
		Token:    tokenAnswered,
		Symbol:   "✅",
		Meaning:  "answered",
		Terminal: true,
	}, Glyph{
		Token:    tokenRedirected,
		Symbol:   "🕊",
		Meaning:  "redirected",
		Terminal: true,
	}, Glyph{
		Token:    tokenDeclined,
		Symbol:   "❌",
		Meaning:  "declined",
		Terminal: true,
	}, Glyph{
		Token:   tokenArchived,
		Symbol:  "▣",
		Meaning: "archived",
	}, Glyph{
		Token:   tokenLegacyHidden,
		Symbol:  "▢",
		Meaning: "hidden (legacy)",
	})

	return g
}

func (g Glyph) String() string {
	return g.Symbol
}

func (s Status) Glyph() Glyph {
	return DefaultGlyphs()[s]
}

func (s Status) String() string {
	return s.Glyph().String()
}

// Token returns the string stored in the backend for this status.
func (s Status) Token() string {
	return s.Glyph().Token
}

// Hidden reports whether the status itself is one of the two historical
// tokens that overload the status channel to mean "not visible".
func (s Status) Hidden() bool {
	return s == Archived || s == LegacyHidden
}

// ParseStatus maps a stored token back to a Status. Empty and unrecognized
// tokens fall back to Pending, matching how the backend treats blank cells.
func ParseStatus(token string) Status {
	for i, g := range DefaultGlyphs() {
		if g.Token == token {
			return Status(i)
		}
	}
	return Pending
}

// DisplayStatuses returns the four statuses a user may assign directly.
// Archived and LegacyHidden are reachable only through the archive flow.
func DisplayStatuses() []Status {
	return []Status{Pending, Answered, Redirected, Declined}
}
