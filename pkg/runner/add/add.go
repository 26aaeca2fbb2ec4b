package add

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prayteam/pkg/app"
	"prayteam/pkg/prayer"
	"prayteam/pkg/printers"
	"prayteam/pkg/remote"
	"prayteam/pkg/store"
)

// Prayer appends one prayer to a member's record and prints the result.
type Prayer struct {
	Client  *remote.Client
	Store   *store.Store
	Service *app.Service

	Actor   string
	GroupID string
	Member  string
	Text    string
}

func (n *Prayer) Do(ctx context.Context) error {
	if n.Service == nil || n.Store == nil || n.Client == nil {
		return errors.New("can not add prayer, missing wiring")
	}
	groups, err := n.Client.GetGroups(ctx, n.Actor)
	if err != nil {
		return err
	}
	var group *prayer.Group
	for i := range groups {
		if groups[i].ID == n.GroupID {
			group = &groups[i]
			break
		}
	}
	if group == nil {
		return fmt.Errorf("unknown group %q", n.GroupID)
	}

	// Seed the cache so the append lands on the backend's current list.
	if _, err := n.Store.LoadMember(ctx, n.GroupID, n.Member); err != nil {
		return err
	}
	if err := n.Service.AddPrayer(ctx, *group, n.Member, n.Text); err != nil {
		return err
	}

	rec, _ := n.Store.Member(n.GroupID, n.Member)
	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.TitleWithCount(rec.Member, len(rec.Visible()))
	pp.Record(rec, time.Now())
	return nil
}

// Group provisions a new group with an optional initial member list.
type Group struct {
	Service *app.Service
	Name    string
	Members []string
}

func (n *Group) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add group, no service")
	}
	group, err := n.Service.ProvisionGroup(ctx, n.Name, n.Members)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.Title(group.Name)
	pp.Groups(group)
	return nil
}

// Member enrolls one member into an existing group.
type Member struct {
	Client  *remote.Client
	GroupID string
	Name    string
}

func (n *Member) Do(ctx context.Context) error {
	if n.Client == nil {
		return errors.New("can not add member, no remote client")
	}
	return n.Client.AddMember(ctx, n.GroupID, n.Name)
}
