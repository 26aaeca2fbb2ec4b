package commands

import (
	"errors"
	"log/slog"

	"prayteam/pkg/app"
	"prayteam/pkg/remote"
	"prayteam/pkg/store"
)

// env is the wired-up client core every command runs against.
type env struct {
	cfg    store.Config
	client *remote.Client
	store  *store.Store
	mirror *store.Mirror
	svc    *app.Service
}

func wire() (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Endpoint() == "" {
		return nil, errors.New("no endpoint configured, set endpoint in ~/.prayteam.yaml or PRAYTEAM_ENDPOINT")
	}
	client := remote.New(cfg.Endpoint())

	opts := []store.Option{}
	var mirror *store.Mirror
	if m, err := store.OpenMirror(cfg); err != nil {
		slog.Warn("record mirror unavailable, running without it", "err", err)
	} else {
		mirror = m
		opts = append(opts, store.WithMirror(mirror))
	}
	st := store.NewStore(client, opts...)

	return &env{
		cfg:    cfg,
		client: client,
		store:  st,
		mirror: mirror,
		svc:    app.NewService(st, client, cfg.ActorID()),
	}, nil
}
