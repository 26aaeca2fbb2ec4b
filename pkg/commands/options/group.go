// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// GroupOptions captures group/member selection flags.
type GroupOptions struct {
	GroupID string
	Member  string
}

// AddGroupArgs wires the group selection flag on the provided command.
func AddGroupArgs(cmd *cobra.Command, o *GroupOptions) {
	cmd.Flags().StringVarP(&o.GroupID, "group", "g", "",
		"Specify the group id.")
}

// AddMemberArgs wires the member selection flag on the provided command.
func AddMemberArgs(cmd *cobra.Command, o *GroupOptions) {
	cmd.Flags().StringVarP(&o.Member, "member", "m", "",
		"Specify the member name.")
}
