package commands

import (
	"context"

	"github.com/spf13/cobra"

	"prayteam/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	fragment := ""
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
prayteam ui
prayteam ui --link "#group=g1&member=민수"
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := wire()
			if err != nil {
				return output.HandleError(err)
			}
			i := ui.UI{
				Client:   e.client,
				Store:    e.store,
				Service:  e.svc,
				Mirror:   e.mirror,
				Actor:    e.cfg.ActorID(),
				Fragment: fragment,
			}
			return i.Do(context.Background())
		},
	}

	cmd.Flags().StringVar(&fragment, "link", "",
		"Open a shared deep link (guest mode) instead of the group list.")

	topLevel.AddCommand(cmd)
}
