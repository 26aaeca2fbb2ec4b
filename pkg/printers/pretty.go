package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"prayteam/pkg/aggregate"
	"prayteam/pkg/glyph"
	"prayteam/pkg/prayer"
	"prayteam/pkg/timeutil"
)

type PrettyPrint struct {
	// ShowIndex prefixes every slot line with its server index.
	ShowIndex bool
	// ShowHidden includes archived and hidden slots, marked faint.
	ShowHidden bool
}

var spacing = strings.Repeat(" ", len("12  "))

// textWidth caps prayer text; long prayers wrap onto continuation lines
// indented past the glyph.
const textWidth = 72

func wrapText(text, indent string) string {
	wrapped := wordwrap.String(text, textWidth)
	return strings.ReplaceAll(wrapped, "\n", "\n"+indent)
}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowIndex {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowIndex {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" prayer")
	default:
		_, _ = c.Println(" prayers")
	}
}

// Groups renders the group directory as a table.
func (pp *PrettyPrint) Groups(groups ...prayer.Group) {
	if len(groups) == 0 {
		pp.none()
		return
	}
	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true
	table.AddRow("ID", "NAME", "MEMBERS")
	for _, g := range groups {
		table.AddRow(g.ID, g.Name, strings.Join(g.Members, ", "))
	}
	fmt.Println(table)
	fmt.Println("")
}

// Record renders one member's slots, one line each: glyph, text, note and
// relative age.
func (pp *PrettyPrint) Record(rec prayer.MemberRecord, now time.Time) {
	slots := rec.Slots
	if !pp.ShowHidden {
		slots = rec.Visible()
	}
	if len(slots) == 0 {
		pp.none()
		return
	}

	t := color.New()
	f := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for _, sl := range slots {
		if pp.ShowIndex {
			idx := fmt.Sprintf("%d", sl.Index)
			_, _ = y.Print(idx)
			_, _ = y.Print(strings.Repeat(" ", max(1, len(spacing)-len(idx))))
		}
		indent := "   "
		if pp.ShowIndex {
			indent += spacing
		}
		text := wrapText(sl.Text, indent)
		if sl.EffectiveHidden() {
			_, _ = f.Printf("%s %s", sl.Status, glyph.Strike(text))
		} else {
			_, _ = t.Printf("%s %s", sl.Status, text)
		}
		if sl.Note != "" {
			_, _ = f.Printf("  ∙ %s", sl.Note)
		}
		if sl.RecordedAt != "" {
			_, _ = f.Printf("  (%s)", timeutil.Relative(sl.RecordedAt, now))
		}
		fmt.Println("")
	}
	_, _ = t.Println("")
}

// Projection renders the cross-group view, one colored section per member.
func (pp *PrettyPrint) Projection(proj aggregate.Projection, now time.Time) {
	if len(proj.Sections) == 0 {
		pp.none()
		return
	}
	f := color.New(color.Faint)
	for _, sec := range proj.Sections {
		r, g, b := sec.Color.RGB255()
		head := color.RGB(int(r), int(g), int(b)).Add(color.Bold)
		_, _ = head.Printf("%s ∙ %s", sec.GroupName, sec.Member)
		if sec.Footer != "" {
			_, _ = f.Printf("  %s", timeutil.Relative(sec.Footer, now))
		}
		fmt.Println("")
		for _, sl := range sec.Slots {
			fmt.Printf("  %s %s", sl.Status, wrapText(sl.Text, "     "))
			if sl.Note != "" {
				_, _ = f.Printf("  ∙ %s", sl.Note)
			}
			fmt.Println("")
		}
		fmt.Println("")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowIndex {
		_, _ = f.Print(spacing)
	}
	_, _ = f.Print(" none\n\n")
}
