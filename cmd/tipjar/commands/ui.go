package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tipjar/internal/tui"
)

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive tipping UI",
		RunE:  runUI,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	_, cached := appCtx.Connector.CachedChoice()
	cfg := appCtx.Config

	m := tui.New(tui.Options{
		Ctx:                 ctx,
		Sessions:            appCtx.Sessions,
		Transfers:           appCtx.Transfers,
		Notices:             notices.C(),
		Wallet:              walletName,
		AutoConnect:         cached || walletName != "",
		Title:               cfg.Recipient.Label + "'s Tipping dApp",
		ResetDraftOnSuccess: cfg.Transfer.ResetDraftOnSuccess,
		ToastTTL:            cfg.UI.ToastTTL,
	})
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
