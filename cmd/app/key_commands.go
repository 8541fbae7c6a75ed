package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/legacyvault/cmd/app/commands"
	"github.com/allisson/legacyvault/internal/app"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-key",
			Usage: "Create the master key file at KEY_STORE_PATH if it does not exist",
			Flags: []cli.Flag{formatFlag()},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				store, err := container.KeyStore(ctx)
				if err != nil {
					return err
				}
				return commands.RunCreateMasterKey(
					ctx, store, container.Logger(), commands.DefaultIO().Writer, cmd.String("format"),
				)
			}),
		},
		{
			Name:  "generate-key",
			Usage: "Print a random base64 encoded 32-byte key",
			Flags: []cli.Flag{formatFlag()},
			Action: containerAction(func(_ context.Context, cmd *cli.Command, container *app.Container) error {
				cipher, err := container.Cipher()
				if err != nil {
					return err
				}
				return commands.RunGenerateKey(cipher, commands.DefaultIO().Writer, cmd.String("format"))
			}),
		},
	}
}
