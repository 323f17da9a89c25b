package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"tipjar/internal/connector"
	"tipjar/internal/domain"
	"tipjar/internal/metrics"
	sessionsvc "tipjar/internal/services/session"
	transfersvc "tipjar/internal/services/transfer"
	"tipjar/internal/store"
)

// Options are the per-invocation inputs that do not live in Config.
type Options struct {
	Home       string          // state directory, e.g. $HOME/.tipjar
	Passphrase string          // unlocks keystore and mnemonic wallets
	Notifier   domain.Notifier // where user-facing notices go
}

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Store     *store.FileStore
	Connector *connector.Modal
	Keystore  *connector.Keystore
	Sessions  *sessionsvc.Service
	Transfers *transfersvc.Service
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, opts Options) (*Wire, error) {
	if cfg.NeedsAPIKey() {
		log.Warn().Str("env", APIKeyEnv).Msg("rpc_url expects an API key but none is set")
	}

	fs := store.NewFileStore(opts.Home)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Wallet options
	ks := &connector.Keystore{
		Dir:          cfg.KeystoreDir(opts.Home),
		Account:      cfg.Wallets.Keystore.Account,
		Passphrase:   opts.Passphrase,
		RPCURL:       cfg.RPCURL(),
		PollInterval: cfg.PollInterval,
	}
	modal := connector.NewModal(fs, cfg.Wallets.CacheProvider,
		&connector.Injected{URL: cfg.Wallets.Injected.URL, PollInterval: cfg.PollInterval},
		ks,
		&connector.Mnemonic{
			Vault:        fs,
			Passphrase:   opts.Passphrase,
			Index:        cfg.Wallets.Mnemonic.Index,
			RPCURL:       cfg.RPCURL(),
			PollInterval: cfg.PollInterval,
		},
	)

	msgs := domain.Messages{RecipientLabel: cfg.Recipient.Label, NetworkName: cfg.Network.Name}

	// High-level services
	sessions := sessionsvc.New(modal, opts.Notifier, sessionsvc.Config{
		ExpectedChainID: cfg.Network.ChainID,
		Messages:        msgs,
	}, m)
	transfers := transfersvc.New(sessions, opts.Notifier, transfersvc.Config{
		Recipient:     cfg.RecipientAddress(),
		Confirmations: cfg.Transfer.Confirmations,
		AttachMemo:    cfg.Transfer.AttachMemo,
		Messages:      msgs,
	}, m)

	return &Wire{
		Store:     fs,
		Connector: modal,
		Keystore:  ks,
		Sessions:  sessions,
		Transfers: transfers,
		Metrics:   m,
		Registry:  registry,
	}, nil
}
