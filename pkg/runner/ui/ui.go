package ui

import (
	"context"
	"errors"

	"prayteam/pkg/app"
	"prayteam/pkg/remote"
	"prayteam/pkg/store"
	"prayteam/pkg/tui"
)

type UI struct {
	Client  *remote.Client
	Store   *store.Store
	Service *app.Service
	Mirror  *store.Mirror
	Actor   string

	// Fragment, when set, is a shared deep link; the UI boots in guest
	// mode scoped to the linked group.
	Fragment string
}

func (d *UI) Do(ctx context.Context) error {
	if d.Client == nil || d.Store == nil || d.Service == nil {
		return errors.New("can not open ui, missing wiring")
	}
	return tui.Run(tui.Config{
		Store:    d.Store,
		Service:  d.Service,
		Client:   d.Client,
		Mirror:   d.Mirror,
		Actor:    d.Actor,
		Fragment: d.Fragment,
	})
}
