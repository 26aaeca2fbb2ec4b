// Package aggregate flattens every group's prayer records into one ordered
// projection, fed by a single bulk fetch. Ordering is fully deterministic:
// groups in caller order, members in stored order, slots in record order.
// The same member name appearing in two groups stays two sections; identity
// is group-scoped and nothing is deduplicated across groups.
package aggregate

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"prayteam/pkg/glyph"
	"prayteam/pkg/prayer"
	"prayteam/pkg/remote"
	"prayteam/pkg/timeutil"
)

// palette mirrors the fourteen gradient hues the member cards cycle
// through, assigned per group so every section from one group shares a hue.
var palette = mustPalette(
	"#f87171", "#fb923c", "#fbbf24", "#facc15",
	"#a3e635", "#4ade80", "#34d399", "#2dd4bf",
	"#22d3ee", "#38bdf8", "#60a5fa", "#818cf8",
	"#a78bfa", "#e879f9",
)

func mustPalette(hexes ...string) []colorful.Color {
	out := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}

// GroupColor returns the hue assigned to the group at the given position.
func GroupColor(groupIdx int) colorful.Color {
	return palette[groupIdx%len(palette)]
}

// Section is one member's visible slots within one group.
type Section struct {
	GroupID   string
	GroupName string
	Member    string
	Color     colorful.Color
	Slots     []prayer.Slot

	// Footer is the member's freshest timestamp in raw backend form: the
	// latest parseable slot date, else the bulk lastUpdated value.
	Footer string
}

// Item is one row of the flattened projection.
type Item struct {
	Slot      prayer.Slot
	GroupID   string
	GroupName string
	Member    string
	Color     colorful.Color
}

type Projection struct {
	Sections []Section
}

// Flatten expands the projection row by row, preserving section order.
func (p Projection) Flatten() []Item {
	var items []Item
	for _, sec := range p.Sections {
		for _, sl := range sec.Slots {
			items = append(items, Item{
				Slot:      sl,
				GroupID:   sec.GroupID,
				GroupName: sec.GroupName,
				Member:    sec.Member,
				Color:     sec.Color,
			})
		}
	}
	return items
}

func (p Projection) Total() int {
	n := 0
	for _, sec := range p.Sections {
		n += len(sec.Slots)
	}
	return n
}

// Build projects one bulk payload. Groups iterate in the order the caller
// passes them; members in each group's stored order; a member with no bulk
// row, or whose every slot is hidden, contributes no section.
func Build(groups []prayer.Group, bulk []remote.BulkEntry) Projection {
	byKey := make(map[string]remote.BulkEntry, len(bulk))
	for _, e := range bulk {
		byKey[e.GroupID+"\x00"+e.MemberName] = e
	}

	var proj Projection
	for gi, g := range groups {
		for _, member := range g.Members {
			entry, ok := byKey[g.ID+"\x00"+member]
			if !ok {
				continue
			}
			sec := buildSection(g, member, GroupColor(gi), entry)
			if len(sec.Slots) == 0 {
				continue
			}
			proj.Sections = append(proj.Sections, sec)
		}
	}
	return proj
}

func buildSection(g prayer.Group, member string, color colorful.Color, entry remote.BulkEntry) Section {
	sec := Section{
		GroupID:   g.ID,
		GroupName: g.Name,
		Member:    member,
		Color:     color,
	}
	var dates []string
	for i, text := range entry.Prayers {
		if strings.TrimSpace(text) == "" {
			continue
		}
		sl := prayer.Slot{
			Text:       text,
			Status:     glyph.ParseStatus(at(entry.Responses, i)),
			Note:       at(entry.Comments, i),
			Visibility: prayer.Visibility(at(entry.Visibilities, i)),
			RecordedAt: at(entry.Dates, i),
			Index:      i + 1,
		}
		if sl.EffectiveHidden() {
			continue
		}
		sec.Slots = append(sec.Slots, sl)
		if sl.RecordedAt != "" {
			dates = append(dates, sl.RecordedAt)
		}
	}
	if raw, _, ok := timeutil.Latest(dates); ok {
		sec.Footer = raw
	} else {
		sec.Footer = entry.LastUpdated
	}
	return sec
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}
