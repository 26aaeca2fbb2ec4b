package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"prayteam/pkg/commands/options"
	"prayteam/pkg/pick"
	"prayteam/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	gro := &options.GroupOptions{}

	cmd := &cobra.Command{
		Use:       "add [group|member|prayer]",
		Short:     "add a group, enroll a member, or append a prayer",
		ValidArgs: []string{"group", "member", "prayer"},
		Args:      cobra.MinimumNArgs(2),
		Example: `
prayteam add group 청년부 민수 수지
prayteam add member 은혜 --group g1
prayteam add prayer "새 직장을 위해" --group g1 --member 민수
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := wire()
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()

			switch args[0] {
			case "group":
				s := add.Group{
					Service: e.svc,
					Name:    args[1],
					Members: args[2:],
				}
				err = s.Do(ctx)
			case "member":
				if gro.GroupID == "" {
					return errors.New("member needs --group")
				}
				s := add.Member{
					Client:  e.client,
					GroupID: gro.GroupID,
					Name:    args[1],
				}
				err = s.Do(ctx)
			case "prayer":
				if gro.GroupID == "" {
					g, perr := pickGroup(ctx, e)
					if perr != nil {
						return output.HandleError(perr)
					}
					gro.GroupID = g.ID
					if gro.Member == "" {
						m, merr := pick.Member(g)
						if merr != nil {
							return output.HandleError(merr)
						}
						gro.Member = m
					}
				}
				if gro.Member == "" {
					return errors.New("prayer needs --member")
				}
				s := add.Prayer{
					Client:  e.client,
					Store:   e.store,
					Service: e.svc,
					Actor:   e.cfg.ActorID(),
					GroupID: gro.GroupID,
					Member:  gro.Member,
					Text:    strings.Join(args[1:], " "),
				}
				err = s.Do(ctx)
			default:
				return errors.New("add what? one of group, member, prayer")
			}
			return output.HandleError(err)
		},
	}

	options.AddGroupArgs(cmd, gro)
	options.AddMemberArgs(cmd, gro)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
