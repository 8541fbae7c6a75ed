package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/legacyvault/internal/app"
	"github.com/allisson/legacyvault/internal/config"
)

const (
	categoryOperations = "operations"
	categoryKeys       = "keys"
	categoryUsers      = "users"
)

func getCommands(version string) []*cli.Command {
	groups := map[string][]*cli.Command{
		categoryOperations: getSystemCommands(version),
		categoryKeys:       getKeyCommands(),
		categoryUsers:      getUserCommands(),
	}

	var cmds []*cli.Command
	for _, category := range []string{categoryOperations, categoryKeys, categoryUsers} {
		for _, cmd := range groups[category] {
			cmd.Category = category
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// containerAction loads the configuration, builds a container for the duration
// of one command and releases it afterwards.
func containerAction(
	run func(ctx context.Context, cmd *cli.Command, container *app.Container) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container := app.NewContainer(config.Load())
		defer func() { _ = container.Shutdown(context.Background()) }()
		return run(ctx, cmd, container)
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
