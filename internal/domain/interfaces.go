package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Connector discovers and connects a wallet, remembering the last choice.
type Connector interface {
	// Connect opens the named wallet, or the cached one when choice is empty.
	Connect(ctx context.Context, choice string) (Provider, error)
	ClearCachedProvider() error
}

// Provider is an active connection to a wallet.
type Provider interface {
	ListAccounts(ctx context.Context) ([]common.Address, error)
	Network(ctx context.Context) (Network, error)
	Signer(ctx context.Context) (Signer, error)
	// On registers h for kind. The returned func removes it; calling it more
	// than once is a no-op.
	On(kind EventKind, h EventHandler) (unsubscribe func())
	Close() error
}

// Signer authorizes and broadcasts transactions for one account.
type Signer interface {
	Address() common.Address
	SendTransaction(ctx context.Context, req TxRequest) (TxHandle, error)
}

// TxHandle is a broadcast transaction.
type TxHandle interface {
	Hash() common.Hash
	// Wait blocks until the transaction has the given number of
	// confirmations, or ctx is done.
	Wait(ctx context.Context, confirmations uint64) (Receipt, error)
}

// Notifier delivers user-facing notices.
type Notifier interface {
	Notify(n Notice)
}

// ChoiceCache persists the last connected wallet choice.
type ChoiceCache interface {
	SaveChoice(name string) error
	LoadChoice() (name string, ok bool, err error)
	ClearChoice() error
}

// MnemonicVault keeps a BIP-39 mnemonic encrypted at rest.
type MnemonicVault interface {
	SaveMnemonic(passphrase, mnemonic string) error
	LoadMnemonic(passphrase string) (string, error)
}

// SessionService owns the wallet session.
type SessionService interface {
	Connect(ctx context.Context, choice string) (Session, error)
	Disconnect() error
	Current() Session
	State() State
	OnChange(fn func(Session)) (unsubscribe func())
}

// TransferService submits payments through the active session.
type TransferService interface {
	Submit(ctx context.Context, draft TransferDraft) (Receipt, error)
	Pending() bool
}
