package connector

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"tipjar/internal/domain"
	"tipjar/internal/eth"
)

// Keystore signs with a key from a go-ethereum keystore directory.
type Keystore struct {
	Dir          string
	Account      string // hex address; empty selects the first account
	Passphrase   string
	RPCURL       string
	PollInterval time.Duration
}

func (w *Keystore) Name() string { return "keystore" }

// ListAccounts returns the addresses stored in Dir.
func (w *Keystore) ListAccounts() []common.Address {
	ks := keystore.NewKeyStore(w.Dir, keystore.StandardScryptN, keystore.StandardScryptP)
	out := make([]common.Address, 0, len(ks.Accounts()))
	for _, a := range ks.Accounts() {
		out = append(out, a.Address)
	}
	return out
}

func (w *Keystore) Open(ctx context.Context) (domain.Provider, error) {
	ks := keystore.NewKeyStore(w.Dir, keystore.StandardScryptN, keystore.StandardScryptP)
	acct, err := w.pick(ks)
	if err != nil {
		return nil, err
	}

	// Fail at connect time, not at pay time, on a wrong passphrase.
	if err := ks.Unlock(acct, w.Passphrase); err != nil {
		return nil, errors.Wrapf(err, "unlock %s", acct.Address.Hex())
	}
	if err := ks.Lock(acct.Address); err != nil {
		return nil, err
	}

	client, err := ethclient.DialContext(ctx, w.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial network rpc")
	}
	passphrase := w.Passphrase
	sign := func(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
		return ks.SignTxWithPassphrase(acct, passphrase, tx, chainID)
	}
	return eth.NewProvider(eth.ProviderConfig{
		Backend:  client,
		Accounts: eth.StaticAccounts{acct.Address},
		NewSigner: func(from common.Address) (domain.Signer, error) {
			return eth.NewKeySigner(client, from, sign), nil
		},
		PollInterval: w.PollInterval,
		Close:        client.Close,
	}), nil
}

func (w *Keystore) pick(ks *keystore.KeyStore) (accounts.Account, error) {
	all := ks.Accounts()
	if len(all) == 0 {
		return accounts.Account{}, errors.Wrapf(domain.ErrNoWallet, "keystore %s is empty", w.Dir)
	}
	if w.Account == "" {
		return all[0], nil
	}
	want := strings.ToLower(w.Account)
	for _, a := range all {
		if strings.ToLower(a.Address.Hex()) == want {
			return a, nil
		}
	}
	return accounts.Account{}, errors.Wrapf(domain.ErrNoWallet, "account %s not in keystore", w.Account)
}
