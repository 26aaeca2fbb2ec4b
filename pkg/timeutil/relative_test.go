package timeutil

import (
	"testing"
	"time"
)

func TestParseLooseDotSeparated(t *testing.T) {
	at, ok := ParseLoose("2024.03.05 14:30:00")
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	want := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.Local)
	if !at.Equal(want) {
		t.Fatalf("expected %v, got %v", want, at)
	}
}

func TestParseLooseDashAndNoClock(t *testing.T) {
	at, ok := ParseLoose("2023-11-02")
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	want := time.Date(2023, time.November, 2, 0, 0, 0, 0, time.Local)
	if !at.Equal(want) {
		t.Fatalf("expected %v, got %v", want, at)
	}
}

func TestParseLooseMeridiem(t *testing.T) {
	cases := []struct {
		in   string
		hour int
	}{
		{"2024.01.01 오후 2:15", 14},
		{"2024.01.01 오전 9:05:30", 9},
		{"2024.01.01 PM 7:00", 19},
		{"2024.01.01 12:10 오전", 0},
		{"2024.01.01 12:10 오후", 12},
	}
	for _, tc := range cases {
		at, ok := ParseLoose(tc.in)
		if !ok {
			t.Fatalf("%q: expected parse to succeed", tc.in)
		}
		if at.Hour() != tc.hour {
			t.Fatalf("%q: expected hour %d, got %d", tc.in, tc.hour, at.Hour())
		}
	}
}

func TestParseLooseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"not a date", "", "12:30:00", "374.1.1000"} {
		if _, ok := ParseLoose(in); ok {
			t.Fatalf("%q: expected parse failure", in)
		}
	}
}

func TestRelativeBuckets(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
	cases := []struct {
		in   string
		want string
	}{
		{"2024.06.15 11:59:30", "방금 전"},
		{"2024.06.15 11:45:00", "15분 전"},
		{"2024.06.15 06:00:00", "6시간 전"},
		{"2024.06.12 12:00:00", "3일 전"},
		{"2024.04.15", "2개월 전"},
		{"2021.06.15", "3년 전"},
	}
	for _, tc := range cases {
		if got := Relative(tc.in, now); got != tc.want {
			t.Fatalf("Relative(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRelativeReturnsRawOnFailure(t *testing.T) {
	now := time.Now()
	if got := Relative("not a date", now); got != "not a date" {
		t.Fatalf("expected raw string back, got %q", got)
	}
	if got := Relative("", now); got != "" {
		t.Fatalf("expected empty string back, got %q", got)
	}
}

func TestLatestSkipsUnparseable(t *testing.T) {
	raws := []string{"nope", "2024.01.02", "2024.03.01 08:00", ""}
	raw, at, ok := Latest(raws)
	if !ok {
		t.Fatalf("expected a parseable candidate")
	}
	if raw != "2024.03.01 08:00" {
		t.Fatalf("unexpected latest %q", raw)
	}
	if at.Month() != time.March {
		t.Fatalf("unexpected instant %v", at)
	}
	if _, _, ok := Latest([]string{"x", "y"}); ok {
		t.Fatalf("expected no candidate")
	}
}
