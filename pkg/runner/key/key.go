// Package key prints the legend of stored status tokens.
package key

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"prayteam/pkg/glyph"
)

// Key prints the status token legend.
type Key struct{}

// Do renders the legend to stdout. The archive and legacy-hidden sentinels
// are listed separately since they are never assigned directly.
func (k *Key) Do(ctx context.Context) error {
	_, _ = fmt.Fprintln(color.Output, "")

	statuses := make([]glyph.Glyph, 0, 4)
	for _, st := range glyph.DisplayStatuses() {
		statuses = append(statuses, st.Glyph())
	}
	k.render(statuses, "Statuses")

	_, _ = fmt.Fprintln(color.Output, "")

	sentinels := []glyph.Glyph{
		glyph.Archived.Glyph(),
		glyph.LegacyHidden.Glyph(),
	}
	k.render(sentinels, "Sentinels")

	fmt.Println("")
	return nil
}

func (k *Key) render(glyfs []glyph.Glyph, title string) {
	_, _ = fmt.Fprintln(color.Output, glyph.Bold(glyph.Underline(title)))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(glyph.Bold("Symbol"), glyph.Bold("Token"), glyph.Bold("Meaning"))
	for _, g := range glyfs {
		meaning := g.Meaning
		if g.Terminal {
			meaning += " (final)"
		}
		tbl.AddRow(g.Symbol, g.Token, meaning)
	}

	_, _ = fmt.Fprintln(color.Output, tbl)
}
