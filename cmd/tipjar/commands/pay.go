package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tipjar/internal/domain"
	"tipjar/internal/eth"
)

func payCmd() *cobra.Command {
	var memo string
	cmd := &cobra.Command{
		Use:   "pay <amount>",
		Short: "Send one tip (amount in ETH) to the configured recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			cfg := appCtx.Config
			t := tipper{
				sessions:  appCtx.Sessions,
				transfers: appCtx.Transfers,
				wallet:    walletName,
				recipient: cfg.Recipient.Label,
				chainID:   cfg.Network.ChainID,
				out:       os.Stdout,
			}
			_, err := t.pay(ctx, domain.TransferDraft{Amount: args[0], Memo: memo})
			return err
		},
	}
	cmd.Flags().StringVar(&memo, "memo", "", "short note for the recipient")
	return cmd
}

// tipper is the headless pay flow: connect, then submit once.
type tipper struct {
	sessions  domain.SessionService
	transfers domain.TransferService
	wallet    string
	recipient string
	chainID   int64 // expected; zero skips the check
	out       io.Writer
}

func (t tipper) pay(ctx context.Context, draft domain.TransferDraft) (domain.Receipt, error) {
	// Reject a bad amount before prompting any wallet.
	wei, err := eth.ParseEther(draft.Amount)
	if err != nil {
		return domain.Receipt{}, err
	}

	sess, err := t.sessions.Connect(ctx, t.wallet)
	if err != nil {
		return domain.Receipt{}, err
	}
	if t.chainID != 0 && sess.ChainID != t.chainID {
		// The session already emitted the wrong-network notice; the
		// transaction still goes out, as it does from the UI.
		log.Warn().Int64("chain_id", sess.ChainID).Int64("expected_chain_id", t.chainID).Msg("sending on an unexpected chain")
	}

	fmt.Fprintf(t.out, "Sending %s ETH to %s...\n", eth.FormatEther(wei), t.recipient)
	receipt, err := t.transfers.Submit(ctx, draft)
	if err != nil {
		return domain.Receipt{}, err
	}
	fmt.Fprintf(t.out, "tx %s mined in block %d\n", receipt.TxHash.Hex(), receipt.BlockNumber)
	return receipt, nil
}
