package connector

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"tipjar/internal/domain"
	"tipjar/internal/eth"
)

// Injected connects to an external signer that holds the keys.
type Injected struct {
	URL          string
	PollInterval time.Duration
}

func (w *Injected) Name() string { return "injected" }

func (w *Injected) Open(ctx context.Context) (domain.Provider, error) {
	if w.URL == "" {
		return nil, errors.Wrap(domain.ErrNoWallet, "no injected wallet endpoint configured")
	}
	rc, err := rpc.DialContext(ctx, w.URL)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrNoWallet, "dial %s: %v", w.URL, err)
	}
	client := ethclient.NewClient(rc)
	accounts := eth.RPCAccounts{Caller: rc}

	// A plain HTTP dial never fails, so ask the wallet for its accounts before handing it out.
	if _, err := accounts.Accounts(ctx); err != nil {
		rc.Close()
		return nil, errors.Wrapf(domain.ErrNoWallet, "wallet at %s not responding: %v", w.URL, err)
	}

	return eth.NewProvider(eth.ProviderConfig{
		Backend:  client,
		Accounts: accounts,
		NewSigner: func(from common.Address) (domain.Signer, error) {
			return eth.NewRPCSigner(rc, client, from), nil
		},
		PollInterval: w.PollInterval,
		Close:        rc.Close,
	}), nil
}
