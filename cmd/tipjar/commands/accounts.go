package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List wallet options and keystore accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cached, _ := appCtx.Connector.CachedChoice()
			fmt.Println("Wallets:")
			for _, name := range appCtx.Connector.Wallets() {
				mark := " "
				if name == cached {
					mark = "*"
				}
				fmt.Printf(" %s %s\n", mark, name)
			}

			accs := appCtx.Keystore.ListAccounts()
			fmt.Printf("Keystore (%s):\n", appCtx.Keystore.Dir)
			if len(accs) == 0 {
				fmt.Println("  (none)")
			}
			for _, a := range accs {
				fmt.Printf("  %s\n", a.Hex())
			}
			return nil
		},
	}
}
