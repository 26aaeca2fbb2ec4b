// Package timeutil parses the loosely formatted timestamps the remote store
// hands back and renders them as relative times.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	datePattern     = regexp.MustCompile(`(\d{4})[.\-](\d{1,2})[.\-](\d{1,2})`)
	clockPattern    = regexp.MustCompile(`(\d{1,2}):(\d{2})(?::(\d{2}))?`)
	meridiemPattern = regexp.MustCompile(`오전|오후|AM|PM|am|pm`)
)

// ParseLoose extracts a best-effort instant from a locale timestamp string:
// the first YYYY.MM.DD (or dash-separated) triple, an independent HH:MM[:SS]
// clock, and an optional 12-hour marker in Korean or Latin script. The
// second return is false when no date triple can be found.
func ParseLoose(raw string) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	hour, minute, second := 0, 0, 0
	if c := clockPattern.FindStringSubmatch(raw); c != nil {
		hour, _ = strconv.Atoi(c[1])
		minute, _ = strconv.Atoi(c[2])
		if c[3] != "" {
			second, _ = strconv.Atoi(c[3])
		}
		switch meridiemPattern.FindString(raw) {
		case "오후", "PM", "pm":
			if hour < 12 {
				hour += 12
			}
		case "오전", "AM", "am":
			if hour == 12 {
				hour = 0
			}
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local), true
}

// Relative maps the elapsed time since raw's parsed instant onto a coarse
// human bucket. When raw cannot be parsed the original string comes back
// unchanged; callers treat that as the failure signal.
func Relative(raw string, now time.Time) string {
	if raw == "" {
		return ""
	}
	at, ok := ParseLoose(raw)
	if !ok {
		return raw
	}

	sec := int(now.Sub(at) / time.Second)
	if sec < 60 {
		return "방금 전"
	}
	if sec < 3600 {
		return fmt.Sprintf("%d분 전", sec/60)
	}
	if sec < 86400 {
		return fmt.Sprintf("%d시간 전", sec/3600)
	}
	days := sec / 86400
	if days < 30 {
		return fmt.Sprintf("%d일 전", days)
	}
	months := days / 30
	if months < 12 {
		return fmt.Sprintf("%d개월 전", months)
	}
	return fmt.Sprintf("%d년 전", months/12)
}

// Latest returns the raw string among candidates with the greatest parseable
// instant, skipping unparseable entries. ok is false when none parse.
func Latest(candidates []string) (string, time.Time, bool) {
	var (
		bestRaw string
		bestAt  time.Time
		found   bool
	)
	for _, raw := range candidates {
		at, ok := ParseLoose(raw)
		if !ok {
			continue
		}
		if !found || at.After(bestAt) {
			bestRaw, bestAt, found = raw, at, true
		}
	}
	return bestRaw, bestAt, found
}
