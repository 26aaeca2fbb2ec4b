package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"prayteam/pkg/commands/options"
	"prayteam/pkg/pick"
	"prayteam/pkg/prayer"
	"prayteam/pkg/runner/all"
	"prayteam/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	do := &options.DisplayOptions{}
	gro := &options.GroupOptions{}

	cmd := &cobra.Command{
		Use:       "get [groups|prayers|all]",
		Short:     "get groups, one member's prayers, or the cross-group view",
		ValidArgs: []string{"groups", "prayers", "all"},
		Args:      cobra.ExactArgs(1),
		Example: `
prayteam get groups
prayteam get prayers --group g1 --member 민수
prayteam get all
prayteam get all --group g1
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := wire()
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()

			switch args[0] {
			case "groups":
				s := get.Groups{Client: e.client, Actor: e.cfg.ActorID()}
				err = s.Do(ctx)
			case "prayers":
				if gro.GroupID == "" {
					g, perr := pickGroup(ctx, e)
					if perr != nil {
						return output.HandleError(perr)
					}
					gro.GroupID = g.ID
				}
				members, lerr := lookupMembers(ctx, e, gro.GroupID)
				if lerr != nil {
					return output.HandleError(lerr)
				}
				s := get.Prayers{
					Store:      e.store,
					GroupID:    gro.GroupID,
					Member:     gro.Member,
					Members:    members,
					ShowIndex:  do.ShowIndex,
					ShowHidden: do.ShowHidden,
				}
				err = s.Do(ctx)
			case "all":
				s := all.All{Client: e.client, Actor: e.cfg.ActorID(), GroupID: gro.GroupID}
				err = s.Do(ctx)
			default:
				err = fmt.Errorf("unknown target %q", args[0])
			}
			return output.HandleError(err)
		},
	}

	options.AddGroupArgs(cmd, gro)
	options.AddMemberArgs(cmd, gro)
	options.AddDisplayArgs(cmd, do)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func lookupMembers(ctx context.Context, e *env, groupID string) ([]string, error) {
	groups, err := e.client.GetGroups(ctx, e.cfg.ActorID())
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if g.ID == groupID {
			return g.Members, nil
		}
	}
	return nil, fmt.Errorf("unknown group %q", groupID)
}

func pickGroup(ctx context.Context, e *env) (prayer.Group, error) {
	groups, err := e.client.GetGroups(ctx, e.cfg.ActorID())
	if err != nil {
		return prayer.Group{}, err
	}
	return pick.Group(groups)
}
