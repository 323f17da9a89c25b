package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tipjar/internal/domain"
)

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Connect a wallet and print the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			sess, err := appCtx.Sessions.Connect(ctx, walletName)
			if err != nil {
				return err
			}
			printSession(sess)
			return nil
		},
	}
}

func printSession(sess domain.Session) {
	fmt.Printf("Connected Account: %s\n", sess.Account)
	if sess.ChainID == 0 {
		fmt.Println("No Network")
		return
	}
	fmt.Printf("Network ID: %d (%s)\n", sess.ChainID, sess.NetworkName)
}
