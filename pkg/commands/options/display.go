package options

import (
	"github.com/spf13/cobra"
)

// DisplayOptions
type DisplayOptions struct {
	ShowIndex  bool
	ShowHidden bool
}

func AddDisplayArgs(cmd *cobra.Command, o *DisplayOptions) {
	cmd.Flags().BoolVarP(&o.ShowIndex, "show-index", "k", false,
		"Show the server index of each prayer.")
	cmd.Flags().BoolVar(&o.ShowHidden, "hidden", false,
		"Include archived and hidden prayers.")
}
