package aggregate

import (
	"testing"

	"prayteam/pkg/prayer"
	"prayteam/pkg/remote"
)

func TestBuildOrderingAndNoDedup(t *testing.T) {
	groups := []prayer.Group{
		{ID: "a", Name: "A", Members: []string{"x", "y"}},
		{ID: "b", Name: "B", Members: []string{"y"}},
	}
	bulk := []remote.BulkEntry{
		// Bulk rows arrive in arbitrary order; projection order must not
		// depend on it.
		{GroupID: "b", MemberName: "y", Prayers: []string{"by1"}},
		{GroupID: "a", MemberName: "y", Prayers: []string{"ay1"}},
		{GroupID: "a", MemberName: "x", Prayers: []string{"ax1", "ax2"}},
	}

	proj := Build(groups, bulk)
	if len(proj.Sections) != 3 {
		t.Fatalf("y belongs to both groups and must appear twice: %d sections", len(proj.Sections))
	}
	wantOrder := []struct{ group, member string }{
		{"a", "x"}, {"a", "y"}, {"b", "y"},
	}
	for i, want := range wantOrder {
		sec := proj.Sections[i]
		if sec.GroupID != want.group || sec.Member != want.member {
			t.Fatalf("section %d = %s/%s, want %s/%s", i, sec.GroupID, sec.Member, want.group, want.member)
		}
	}
	if proj.Total() != 4 {
		t.Fatalf("total slots = %d", proj.Total())
	}
}

func TestBuildSkipsHiddenAndBlankSlots(t *testing.T) {
	groups := []prayer.Group{{ID: "a", Name: "A", Members: []string{"x"}}}
	bulk := []remote.BulkEntry{{
		GroupID:      "a",
		MemberName:   "x",
		Prayers:      []string{"keep", "  ", "legacy-hidden", "flag-hidden", "also keep"},
		Responses:    []string{"기대중", "", "숨김", "기대중", "응답됨"},
		Visibilities: []string{"", "", "", "Hidden", "Show"},
	}}

	proj := Build(groups, bulk)
	if len(proj.Sections) != 1 {
		t.Fatalf("sections = %d", len(proj.Sections))
	}
	slots := proj.Sections[0].Slots
	if len(slots) != 2 || slots[0].Text != "keep" || slots[1].Text != "also keep" {
		t.Fatalf("wrong slots survived: %+v", slots)
	}
	if slots[1].Index != 5 {
		t.Fatalf("original position lost: %d", slots[1].Index)
	}
}

func TestBuildDropsFullyHiddenMember(t *testing.T) {
	groups := []prayer.Group{{ID: "a", Name: "A", Members: []string{"x", "y"}}}
	bulk := []remote.BulkEntry{
		{GroupID: "a", MemberName: "x", Prayers: []string{"p"}, Responses: []string{"보관됨"}},
		{GroupID: "a", MemberName: "y", Prayers: []string{"q"}},
	}
	proj := Build(groups, bulk)
	if len(proj.Sections) != 1 || proj.Sections[0].Member != "y" {
		t.Fatalf("fully hidden member should vanish: %+v", proj.Sections)
	}
}

func TestSectionFooterPrefersLatestParseableDate(t *testing.T) {
	groups := []prayer.Group{{ID: "a", Name: "A", Members: []string{"x"}}}
	bulk := []remote.BulkEntry{{
		GroupID:     "a",
		MemberName:  "x",
		Prayers:     []string{"p1", "p2", "p3"},
		Dates:       []string{"2024.01.01", "2024.06.15 10:00", "garbage"},
		LastUpdated: "2023.12.31",
	}}
	proj := Build(groups, bulk)
	if got := proj.Sections[0].Footer; got != "2024.06.15 10:00" {
		t.Fatalf("footer = %q", got)
	}
}

func TestSectionFooterFallsBackToLastUpdated(t *testing.T) {
	groups := []prayer.Group{{ID: "a", Name: "A", Members: []string{"x"}}}
	bulk := []remote.BulkEntry{{
		GroupID:     "a",
		MemberName:  "x",
		Prayers:     []string{"p1"},
		Dates:       []string{"not a date"},
		LastUpdated: "2023.12.31",
	}}
	proj := Build(groups, bulk)
	if got := proj.Sections[0].Footer; got != "2023.12.31" {
		t.Fatalf("footer = %q", got)
	}
}

func TestGroupColorCycles(t *testing.T) {
	if GroupColor(0) != GroupColor(14) {
		t.Fatalf("palette should wrap at its length")
	}
	if GroupColor(0) == GroupColor(1) {
		t.Fatalf("adjacent groups share a hue")
	}
}

func TestFlattenPreservesSectionOrder(t *testing.T) {
	groups := []prayer.Group{{ID: "a", Name: "A", Members: []string{"x", "y"}}}
	bulk := []remote.BulkEntry{
		{GroupID: "a", MemberName: "x", Prayers: []string{"1", "2"}},
		{GroupID: "a", MemberName: "y", Prayers: []string{"3"}},
	}
	items := Build(groups, bulk).Flatten()
	if len(items) != 3 {
		t.Fatalf("items = %d", len(items))
	}
	want := []string{"1", "2", "3"}
	for i, w := range want {
		if items[i].Slot.Text != w {
			t.Fatalf("item %d = %q, want %q", i, items[i].Slot.Text, w)
		}
	}
}
