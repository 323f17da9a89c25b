package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"

	"tipjar/internal/connector"
)

func vaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage the encrypted mnemonic wallet",
	}
	cmd.AddCommand(vaultImportCmd(), vaultAddressCmd())
	return cmd
}

// vault import: read a mnemonic from stdin and seal it with -p.
func vaultImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Store a BIP-39 mnemonic read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return errors.New("passphrase required (-p)")
			}
			raw, err := io.ReadAll(io.LimitReader(os.Stdin, 4096))
			if err != nil {
				return errors.Wrap(err, "read mnemonic")
			}
			mnemonic := strings.Join(strings.Fields(string(raw)), " ")
			if !bip39.IsMnemonicValid(mnemonic) {
				return errors.New("not a valid BIP-39 mnemonic")
			}

			addr, err := connector.DeriveAddress(mnemonic, appCtx.Config.Wallets.Mnemonic.Index)
			if err != nil {
				return err
			}
			if err := appCtx.Store.SaveMnemonic(passphrase, mnemonic); err != nil {
				return err
			}
			fmt.Printf("Mnemonic stored.\nAccount: %s\n", addr.Hex())
			return nil
		},
	}
}

func vaultAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Print the account derived from the stored mnemonic",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return errors.New("passphrase required (-p)")
			}
			mnemonic, err := appCtx.Store.LoadMnemonic(passphrase)
			if err != nil {
				return err
			}
			addr, err := connector.DeriveAddress(mnemonic, appCtx.Config.Wallets.Mnemonic.Index)
			if err != nil {
				return err
			}
			fmt.Println(addr.Hex())
			return nil
		},
	}
}
