package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func disconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the cached wallet choice",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Sessions.Disconnect(); err != nil {
				return err
			}
			fmt.Println("Wallet disconnected")
			return nil
		},
	}
}
