package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"

	"github.com/phturb/domain-randomizer/internal"
	"github.com/phturb/domain-randomizer/players"
	"github.com/phturb/domain-randomizer/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the players service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg := internal.Config()
	deps, err := internal.NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	repo := players.NewRepository(deps.Documents())
	if _, err := players.ScheduleBackups(ctx, deps.Cron(), cfg.Backup.Schedule, repo, cfg.Backup.Dir); err != nil {
		return err
	}
	deps.Cron().Start()

	s, err := server.NewServer(repo, server.Options{
		Addr:      net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		StaticDir: cfg.Server.StaticDir,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(gctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("exiting service")
	return nil
}
