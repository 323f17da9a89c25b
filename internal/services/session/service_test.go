package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar/internal/domain"
	"tipjar/internal/notify"
	"tipjar/internal/services/session"
	"tipjar/internal/testkit"
)

const sepolia = 11155111

var (
	alice = common.HexToAddress("0xAbCdEf0000000000000000000000000000001234")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000bB")
)

func newService(c domain.Connector) (*session.Service, *notify.Recorder) {
	rec := &notify.Recorder{}
	cfg := session.Config{
		ExpectedChainID: sepolia,
		Messages:        domain.Messages{RecipientLabel: "Nadirah", NetworkName: "sepolia"},
	}
	return session.New(c, rec, cfg, nil), rec
}

func TestConnect_NoWalletInstalled(t *testing.T) {
	svc, rec := newService(&testkit.Connector{Err: domain.ErrNoWallet})

	_, err := svc.Connect(context.Background(), "injected")
	require.ErrorIs(t, err, domain.ErrConnectFailed)
	require.ErrorIs(t, err, domain.ErrNoWallet)

	assert.Equal(t, []domain.NoticeKind{domain.NoticeConnectFailed}, rec.Kinds())
	assert.False(t, svc.Current().Active())
	assert.Equal(t, domain.StateDisconnected, svc.State())
}

func TestConnect_PopulatesSession(t *testing.T) {
	p := testkit.NewProvider(alice, sepolia)
	svc, rec := newService(&testkit.Connector{Provider: p})

	var seen []domain.Session
	svc.OnChange(func(s domain.Session) { seen = append(seen, s) })

	sess, err := svc.Connect(context.Background(), "keystore")
	require.NoError(t, err)

	assert.Equal(t, "0xabcdef0000000000000000000000000000001234", sess.Account)
	assert.Equal(t, int64(sepolia), sess.ChainID)
	assert.Equal(t, "sepolia", sess.NetworkName)
	assert.True(t, sess.Active())
	assert.Equal(t, sess, svc.Current())
	assert.Equal(t, domain.StateConnected, svc.State())
	assert.Equal(t, []domain.NoticeKind{domain.NoticeConnected}, rec.Kinds())
	assert.Equal(t, 3, p.Listeners())
	require.Len(t, seen, 1)
	assert.Equal(t, sess.Account, seen[0].Account)
}

func TestConnect_WrongNetworkStillConnects(t *testing.T) {
	p := testkit.NewProvider(alice, 1)
	svc, rec := newService(&testkit.Connector{Provider: p})

	sess, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, sess.Active())
	assert.Equal(t, int64(1), sess.ChainID)
	assert.Equal(t, []domain.NoticeKind{domain.NoticeConnected, domain.NoticeWrongNetwork}, rec.Kinds())
}

func TestConnect_NoAccounts(t *testing.T) {
	p := testkit.NewProvider(alice, sepolia)
	p.Accounts = nil
	svc, rec := newService(&testkit.Connector{Provider: p})

	_, err := svc.Connect(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrNoAccounts)
	assert.Equal(t, []domain.NoticeKind{domain.NoticeConnectFailed}, rec.Kinds())
	assert.Equal(t, 1, p.Closed(), "a half-opened provider is closed")
	assert.Zero(t, p.Listeners())
}

func TestConnect_NetworkError(t *testing.T) {
	p := testkit.NewProvider(alice, sepolia)
	p.NetErr = errors.New("rpc unavailable")
	svc, _ := newService(&testkit.Connector{Provider: p})

	_, err := svc.Connect(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrConnectFailed)
	assert.False(t, svc.Current().Active())
	assert.Equal(t, 1, p.Closed())
}

func TestDisconnect_ClearsSessionAndListeners(t *testing.T) {
	p := testkit.NewProvider(alice, sepolia)
	c := &testkit.Connector{Provider: p}
	svc, _ := newService(c)

	_, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, svc.Disconnect())

	assert.False(t, svc.Current().Active())
	assert.Empty(t, svc.Current().Account)
	assert.Nil(t, svc.Current().Provider)
	assert.Equal(t, domain.StateDisconnected, svc.State())
	assert.Equal(t, 1, c.Cleared)
	assert.Equal(t, 1, p.Closed())
	assert.Zero(t, p.Listeners(), "listeners must be removed, not re-added")
}

func TestReconnect_ReplacesPreviousSession(t *testing.T) {
	first := testkit.NewProvider(alice, sepolia)
	c := &testkit.Connector{Provider: first}
	svc, _ := newService(c)
	_, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)

	second := testkit.NewProvider(bob, sepolia)
	c.Provider = second
	sess, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, domain.NormalizeAccount(bob), sess.Account)
	assert.Equal(t, 1, first.Closed())
	assert.Zero(t, first.Listeners())
	assert.Equal(t, 3, second.Listeners())
	assert.Zero(t, c.Cleared, "switching wallets keeps the cache")
}

func TestEvents_AccountAndChainChanged(t *testing.T) {
	p := testkit.NewProvider(alice, sepolia)
	svc, rec := newService(&testkit.Connector{Provider: p})
	before, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)

	p.Emit(domain.Event{Kind: domain.EventAccountsChanged, Accounts: []common.Address{bob}})
	assert.Equal(t, domain.NormalizeAccount(bob), svc.Current().Account)
	assert.Equal(t, domain.NormalizeAccount(alice), before.Account, "old session values are not mutated")

	p.Emit(domain.Event{Kind: domain.EventChainChanged, Network: domain.Network{Name: "homestead", ChainID: 1}})
	assert.Equal(t, int64(1), svc.Current().ChainID)
	assert.Equal(t, "homestead", svc.Current().NetworkName)
	assert.Equal(t, []domain.NoticeKind{domain.NoticeConnected, domain.NoticeWrongNetwork}, rec.Kinds())
}

func TestEvents_ProviderDisconnect(t *testing.T) {
	p := testkit.NewProvider(alice, sepolia)
	c := &testkit.Connector{Provider: p}
	svc, _ := newService(c)
	_, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)

	p.Emit(domain.Event{Kind: domain.EventDisconnect, Err: errors.New("socket closed")})

	assert.False(t, svc.Current().Active())
	assert.Equal(t, 1, c.Cleared)
	assert.Zero(t, p.Listeners())
}

func TestEvents_EmptyAccountsDisconnects(t *testing.T) {
	p := testkit.NewProvider(alice, sepolia)
	svc, _ := newService(&testkit.Connector{Provider: p})
	_, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)

	p.Emit(domain.Event{Kind: domain.EventAccountsChanged})
	assert.False(t, svc.Current().Active())
}

func TestClose_KeepsCachedChoice(t *testing.T) {
	p := testkit.NewProvider(alice, sepolia)
	c := &testkit.Connector{Provider: p}
	svc, _ := newService(c)
	_, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)

	require.NoError(t, svc.Close())
	assert.False(t, svc.Current().Active())
	assert.Zero(t, c.Cleared)
	assert.Equal(t, 1, p.Closed())
}

func TestOnChange_Unsubscribe(t *testing.T) {
	svc, _ := newService(&testkit.Connector{Provider: testkit.NewProvider(alice, sepolia)})
	calls := 0
	off := svc.OnChange(func(domain.Session) { calls++ })
	off()

	_, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, calls)
}
