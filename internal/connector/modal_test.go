package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar/internal/domain"
	"tipjar/internal/eth"
	"tipjar/internal/store"
)

type stubWallet struct {
	name   string
	err    error
	opened int
}

func (w *stubWallet) Name() string { return w.name }

func (w *stubWallet) Open(context.Context) (domain.Provider, error) {
	w.opened++
	if w.err != nil {
		return nil, w.err
	}
	return eth.NewProvider(eth.ProviderConfig{Accounts: eth.StaticAccounts{}}), nil
}

func TestModal_ExplicitChoiceIsCached(t *testing.T) {
	cache := store.NewFileStore(t.TempDir())
	ks := &stubWallet{name: "keystore"}
	inj := &stubWallet{name: "injected"}
	m := NewModal(cache, true, ks, inj)

	p, err := m.Connect(context.Background(), "injected")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 1, inj.opened)

	name, ok := m.CachedChoice()
	require.True(t, ok)
	assert.Equal(t, "injected", name)

	// an empty choice now reuses the cached wallet
	_, err = m.Connect(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, inj.opened)
	assert.Zero(t, ks.opened)
}

func TestModal_NoChoice(t *testing.T) {
	m := NewModal(store.NewFileStore(t.TempDir()), true, &stubWallet{name: "a"}, &stubWallet{name: "b"})
	_, err := m.Connect(context.Background(), "")
	require.ErrorIs(t, err, ErrNoWalletSelected)
	assert.Equal(t, []string{"a", "b"}, m.Wallets())
}

func TestModal_SingleWalletIsDefault(t *testing.T) {
	only := &stubWallet{name: "mnemonic"}
	m := NewModal(nil, false, only)
	_, err := m.Connect(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, only.opened)
}

func TestModal_UnknownWallet(t *testing.T) {
	m := NewModal(nil, false, &stubWallet{name: "keystore"})
	_, err := m.Connect(context.Background(), "walletconnect")
	require.ErrorIs(t, err, ErrUnknownWallet)
}

func TestModal_FailedOpenIsNotCached(t *testing.T) {
	cache := store.NewFileStore(t.TempDir())
	m := NewModal(cache, true, &stubWallet{name: "injected", err: domain.ErrNoWallet})

	_, err := m.Connect(context.Background(), "injected")
	require.ErrorIs(t, err, domain.ErrNoWallet)
	_, ok := m.CachedChoice()
	assert.False(t, ok)
}

func TestModal_ClearCachedProvider(t *testing.T) {
	cache := store.NewFileStore(t.TempDir())
	m := NewModal(cache, true, &stubWallet{name: "keystore"}, &stubWallet{name: "injected"})

	_, err := m.Connect(context.Background(), "keystore")
	require.NoError(t, err)
	require.NoError(t, m.ClearCachedProvider())

	_, ok := m.CachedChoice()
	assert.False(t, ok)
	_, err = m.Connect(context.Background(), "")
	assert.True(t, errors.Is(err, ErrNoWalletSelected))
}
