package nav

import (
	"net/url"
	"strings"
)

// Target is the restorable slice of navigation state that a fragment can
// carry: which screen, and the group/member it is scoped to.
type Target struct {
	View    View
	GroupID string
	Member  string
}

// FormatFragment serializes a target to its location-hash form, e.g.
// "#prayers?group=g1&member=민수".
func FormatFragment(t Target) string {
	q := url.Values{}
	if t.GroupID != "" {
		q.Set("group", t.GroupID)
	}
	if t.Member != "" {
		q.Set("member", t.Member)
	}
	frag := "#" + t.View.String()
	if len(q) > 0 {
		frag += "?" + q.Encode()
	}
	return frag
}

// ParseFragment is the inverse of FormatFragment. It is deliberately loose:
// a missing or unknown view token falls back to the groups screen, and a
// bare "group=…&member=…" query with no view token is treated as a guest
// deep link into the prayers screen (or members, when only the group is
// given).
func ParseFragment(raw string) Target {
	raw = strings.TrimPrefix(raw, "#")
	token, query, _ := strings.Cut(raw, "?")

	var t Target
	view, known := ParseView(token)
	t.View = view

	if !known && strings.Contains(token, "=") {
		// The whole fragment is a query. Legacy guest links look like
		// "#group=g1&member=민수".
		query = token
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return t
	}
	t.GroupID = q.Get("group")
	t.Member = q.Get("member")

	if !known && t.GroupID != "" {
		if t.Member != "" {
			t.View = ViewPrayers
		} else {
			t.View = ViewMembers
		}
	}
	return t
}
