package commands

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tipjar/internal/app"
	"tipjar/internal/domain"
	"tipjar/internal/logging"
	"tipjar/internal/notify"
)

var (
	home        string
	configPath  string
	passphrase  string
	walletName  string
	logLevel    string
	metricsAddr string

	appCtx  *app.App
	notices *notify.Channel
	logFile *os.File
)

func Execute() error {
	root := &cobra.Command{
		Use:          "tipjar",
		Short:        "Send ETH tips to a fixed recipient",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".tipjar")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			if configPath == "" {
				configPath = filepath.Join(home, "config.yaml")
			}

			interactive := isInteractive(cmd)
			if err := setupLogging(interactive); err != nil {
				return err
			}

			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}

			var notifier domain.Notifier
			if interactive {
				// Toasts on screen, and the same notices in the log file.
				notices = notify.NewChannel(16)
				notifier = notify.Fanout{notices, notify.NewWriter(nil)}
			} else {
				notifier = notify.NewWriter(os.Stdout)
			}

			appCtx, err = app.New(cfg, app.Options{Home: home, Passphrase: passphrase, Notifier: notifier})
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				appCtx.ServeMetrics(metricsAddr)
			}
			log.Debug().Str("home", home).Str("network", cfg.Network.Name).Msg("tipjar ready")
			return nil
		},
		RunE: runUI,
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.tipjar)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for keystore and mnemonic wallets")
	root.PersistentFlags().StringVar(&walletName, "wallet", "", "wallet to connect: injected, keystore or mnemonic (default cached choice)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (e.g. 127.0.0.1:9090)")

	root.AddCommand(uiCmd(), connectCmd(), payCmd(), disconnectCmd(), vaultCmd(), accountsCmd())

	err := root.Execute()
	shutdown()
	return err
}

func isInteractive(cmd *cobra.Command) bool {
	return cmd.Name() == "ui" || !cmd.HasParent()
}

// setupLogging keeps the terminal clean for the UI by logging to a file.
func setupLogging(interactive bool) error {
	if !interactive {
		return logging.Setup(os.Stderr, logLevel, true)
	}
	f, err := logging.OpenFile(home)
	if err != nil {
		return err
	}
	logFile = f
	return logging.Setup(f, logLevel, false)
}

func shutdown() {
	if appCtx != nil {
		appCtx.Close()
	}
	if logFile != nil {
		_ = logFile.Close()
	}
}
