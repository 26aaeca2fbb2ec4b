package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"prayteam/pkg/commands"
)

func main() {
	level := slog.LevelWarn
	if os.Getenv("PRAYTEAM_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	if err := commands.New().Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}
