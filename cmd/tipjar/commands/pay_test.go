package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar/internal/domain"
	"tipjar/internal/eth"
	"tipjar/internal/notify"
	"tipjar/internal/services/session"
	"tipjar/internal/services/transfer"
	"tipjar/internal/testkit"
)

const sepolia = 11155111

var recipient = common.HexToAddress("0x812d37428Db3d928C197d15d839d6Ba3DFb46E36")

func newTipper(chainID int64) (tipper, *testkit.Provider, *notify.Recorder, *bytes.Buffer) {
	msgs := domain.Messages{RecipientLabel: "Nadirah", NetworkName: "sepolia"}
	p := testkit.NewProvider(common.HexToAddress("0xaa"), chainID)
	rec := &notify.Recorder{}
	sessions := session.New(&testkit.Connector{Provider: p}, rec, session.Config{ExpectedChainID: sepolia, Messages: msgs}, nil)
	transfers := transfer.New(sessions, rec, transfer.Config{Recipient: recipient, Messages: msgs}, nil)

	var out bytes.Buffer
	return tipper{
		sessions:  sessions,
		transfers: transfers,
		wallet:    "keystore",
		recipient: "Nadirah",
		chainID:   sepolia,
		out:       &out,
	}, p, rec, &out
}

func TestPay_SendsOnce(t *testing.T) {
	tp, p, rec, out := newTipper(sepolia)

	_, err := tp.pay(context.Background(), domain.TransferDraft{Amount: "0.01", Memo: "gm"})
	require.NoError(t, err)

	require.Len(t, p.Sign.Requests(), 1)
	assert.Equal(t, recipient, p.Sign.Requests()[0].To)
	assert.Equal(t, []domain.NoticeKind{domain.NoticeConnected, domain.NoticePaymentSent}, rec.Kinds())
	assert.Contains(t, out.String(), "Sending 0.01 ETH to Nadirah...")
}

func TestPay_WrongNetworkWarnsAndSends(t *testing.T) {
	tp, p, rec, _ := newTipper(1)

	_, err := tp.pay(context.Background(), domain.TransferDraft{Amount: "0.01"})
	require.NoError(t, err)

	assert.Len(t, p.Sign.Requests(), 1)
	assert.Equal(t, []domain.NoticeKind{
		domain.NoticeConnected,
		domain.NoticeWrongNetwork,
		domain.NoticePaymentSent,
	}, rec.Kinds())
}

func TestPay_BadAmountSkipsWallet(t *testing.T) {
	tp, p, rec, _ := newTipper(sepolia)

	_, err := tp.pay(context.Background(), domain.TransferDraft{Amount: "-1"})
	require.ErrorIs(t, err, eth.ErrNegativeAmount)
	assert.Empty(t, p.Sign.Requests())
	assert.Empty(t, rec.Kinds())
}
