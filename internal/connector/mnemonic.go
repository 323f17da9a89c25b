package connector

import (
	"context"
	"crypto/ecdsa"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	"tipjar/internal/domain"
	"tipjar/internal/eth"
	"tipjar/internal/store"
	"tipjar/internal/util/memzero"
)

// Mnemonic derives a key from the vault's BIP-39 mnemonic.
type Mnemonic struct {
	Vault        domain.MnemonicVault
	Passphrase   string
	Index        uint32
	RPCURL       string
	PollInterval time.Duration
}

func (w *Mnemonic) Name() string { return "mnemonic" }

func (w *Mnemonic) Open(ctx context.Context) (domain.Provider, error) {
	phrase, err := w.Vault.LoadMnemonic(w.Passphrase)
	if errors.Is(err, store.ErrVaultEmpty) {
		return nil, errors.Wrap(domain.ErrNoWallet, "no mnemonic imported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "load mnemonic")
	}
	key, err := DeriveKey(phrase, w.Index)
	if err != nil {
		return nil, err
	}

	client, err := ethclient.DialContext(ctx, w.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial network rpc")
	}
	from := crypto.PubkeyToAddress(key.PublicKey)
	return eth.NewProvider(eth.ProviderConfig{
		Backend:  client,
		Accounts: eth.StaticAccounts{from},
		NewSigner: func(common.Address) (domain.Signer, error) {
			return eth.NewPrivateKeySigner(client, key), nil
		},
		PollInterval: w.PollInterval,
		Close:        client.Close,
	}), nil
}

// DeriveKey returns the private key at m/44'/60'/0'/0/index.
func DeriveKey(mnemonic string, index uint32) (*ecdsa.PrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, errors.Wrap(err, "invalid mnemonic")
	}
	defer memzero.Zero(seed)

	k, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "master key")
	}
	path := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + 60,
		bip32.FirstHardenedChild + 0,
		0,
		index,
	}
	for _, i := range path {
		if k, err = k.NewChildKey(i); err != nil {
			return nil, errors.Wrapf(err, "derive child %d", i)
		}
	}
	raw := common.LeftPadBytes(k.Key, 32)
	defer memzero.Zero(raw, k.Key)
	return crypto.ToECDSA(raw)
}

// DeriveAddress is DeriveKey followed by address recovery.
func DeriveAddress(mnemonic string, index uint32) (common.Address, error) {
	key, err := DeriveKey(mnemonic, index)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}
