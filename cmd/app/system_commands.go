package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/allisson/legacyvault/cmd/app/commands"
	"github.com/allisson/legacyvault/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API and, when enabled, the metrics server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "worker",
			Usage: "Process pending outbox events until interrupted",
			Action: containerAction(func(ctx context.Context, _ *cli.Command, container *app.Container) error {
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				outboxUseCase, err := container.OutboxUseCase()
				if err != nil {
					return err
				}
				return commands.RunWorker(ctx, outboxUseCase, container.Logger())
			}),
		},
		{
			Name:  "migrate",
			Usage: "Apply pending database migrations, or roll back with --rollback",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "rollback",
					Usage: "Number of migrations to revert instead of applying",
				},
			},
			Action: containerAction(func(_ context.Context, cmd *cli.Command, container *app.Container) error {
				cfg := container.Config()
				return commands.RunMigrations(container.Logger(), commands.MigrateOptions{
					Driver:           cfg.DBDriver,
					ConnectionString: cfg.DBConnectionString,
					Rollback:         int(cmd.Int("rollback")),
				})
			}),
		},
	}
}
