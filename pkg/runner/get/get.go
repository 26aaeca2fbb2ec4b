package get

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prayteam/pkg/printers"
	"prayteam/pkg/prayer"
	"prayteam/pkg/remote"
	"prayteam/pkg/store"
)

// Groups lists the actor's group directory.
type Groups struct {
	Client *remote.Client
	Actor  string
}

func (n *Groups) Do(ctx context.Context) error {
	if n.Client == nil {
		return errors.New("can not get groups, no remote client")
	}
	groups, err := n.Client.GetGroups(ctx, n.Actor)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.TitleWithCount("groups", len(groups))
	pp.Groups(groups...)
	return nil
}

// Prayers prints one member's record, or every member of a group when no
// member is named.
type Prayers struct {
	Store      *store.Store
	GroupID    string
	Member     string
	ShowIndex  bool
	ShowHidden bool

	// Members is the group's stored member order, used when Member is empty.
	Members []string
}

func (n *Prayers) Do(ctx context.Context) error {
	if n.Store == nil {
		return errors.New("can not get prayers, no store")
	}
	pp := printers.PrettyPrint{ShowIndex: n.ShowIndex, ShowHidden: n.ShowHidden}
	now := time.Now()
	fmt.Println("")

	if n.Member != "" {
		rec, err := n.Store.LoadMember(ctx, n.GroupID, n.Member)
		if err != nil {
			return err
		}
		n.print(&pp, rec, now)
		return nil
	}

	n.Store.LoadGroup(ctx, prayer.Group{ID: n.GroupID, Members: n.Members})
	for _, member := range n.Members {
		rec, ok := n.Store.Member(n.GroupID, member)
		if !ok {
			continue
		}
		n.print(&pp, rec, now)
	}
	return nil
}

func (n *Prayers) print(pp *printers.PrettyPrint, rec prayer.MemberRecord, now time.Time) {
	if n.ShowHidden {
		pp.TitleWithCount(rec.Member, len(rec.Slots))
	} else {
		pp.TitleWithCount(rec.Member, len(rec.Visible()))
	}
	pp.Record(rec, now)
}
