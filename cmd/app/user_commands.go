package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/legacyvault/cmd/app/commands"
	"github.com/allisson/legacyvault/internal/app"
)

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Register an email and password account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Account email address",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Account password (omit to read it from stdin)",
				},
				formatFlag(),
			},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				authUseCase, err := container.AuthUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					authUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("email"),
					cmd.String("password"),
					cmd.String("format"),
				)
			}),
		},
	}
}
