package all

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prayteam/pkg/aggregate"
	"prayteam/pkg/prayer"
	"prayteam/pkg/printers"
	"prayteam/pkg/remote"
)

// All renders the cross-group projection from one bulk fetch. Setting
// GroupID narrows the projection to that single group, the same scope a
// guest deep link gets.
type All struct {
	Client  *remote.Client
	Actor   string
	GroupID string
}

func (n *All) Do(ctx context.Context) error {
	if n.Client == nil {
		return errors.New("can not aggregate, no remote client")
	}
	groups, err := n.Client.GetGroups(ctx, n.Actor)
	if err != nil {
		return err
	}
	if n.GroupID != "" {
		groups = filter(groups, n.GroupID)
		if len(groups) == 0 {
			return fmt.Errorf("unknown group %q", n.GroupID)
		}
	}
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	bulk, err := n.Client.GetPrayersAllGroups(ctx, ids)
	if err != nil {
		return err
	}

	proj := aggregate.Build(groups, bulk)
	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.TitleWithCount("all prayers", proj.Total())
	pp.Projection(proj, time.Now())
	return nil
}

func filter(groups []prayer.Group, id string) []prayer.Group {
	for _, g := range groups {
		if g.ID == id {
			return []prayer.Group{g}
		}
	}
	return nil
}
