package glyph

import "testing"

func TestParseStatusRoundTrip(t *testing.T) {
	for _, s := range []Status{Pending, Answered, Redirected, Declined, Archived, LegacyHidden} {
		if got := ParseStatus(s.Token()); got != s {
			t.Fatalf("token %q parsed to %v, want %v", s.Token(), got, s)
		}
	}
	if got := ParseStatus(""); got != Pending {
		t.Fatalf("blank cell should read as pending, got %v", got)
	}
	if got := ParseStatus("garbage"); got != Pending {
		t.Fatalf("unknown token should read as pending, got %v", got)
	}
}

func TestHiddenSentinels(t *testing.T) {
	if !Archived.Hidden() || !LegacyHidden.Hidden() {
		t.Fatalf("sentinel statuses must hide their slot")
	}
	for _, s := range DisplayStatuses() {
		if s.Hidden() {
			t.Fatalf("%v is assignable and must stay visible", s)
		}
	}
}

func TestTerminalEmphasis(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{Strike("x"), "\x1b[9mx\x1b[0m"},
		{Bold("x"), "\x1b[1mx\x1b[0m"},
		{Underline("x"), "\x1b[4mx\x1b[0m"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Fatalf("wrong escape sequence: %q, want %q", c.got, c.want)
		}
	}
}
