package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar/internal/domain"
)

var msgs = domain.Messages{RecipientLabel: "Nadirah", NetworkName: "sepolia"}

func TestWriter_PrintsLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf).Notify(msgs.Notice(domain.NoticePaymentSent))
	assert.Equal(t, "[success] Your payment was successfully sent to Nadirah's wallet.\n", buf.String())

	buf.Reset()
	NewWriter(&buf).Notify(msgs.Notice(domain.NoticeWrongNetwork))
	assert.Contains(t, buf.String(), "[error] Please update your network to the sepolia network")
}

func TestChannel_DropsWhenFull(t *testing.T) {
	c := NewChannel(1)
	c.Notify(msgs.Notice(domain.NoticeConnected))
	c.Notify(msgs.Notice(domain.NoticeConnectFailed))

	require.Len(t, c.C(), 1)
	assert.Equal(t, domain.NoticeConnected, (<-c.C()).Kind)
}

func TestFanout(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Fanout{a, nil, b}.Notify(msgs.Notice(domain.NoticePaymentFailed))

	assert.Equal(t, []domain.NoticeKind{domain.NoticePaymentFailed}, a.Kinds())
	assert.Equal(t, []domain.NoticeKind{domain.NoticePaymentFailed}, b.Kinds())
}

func TestFanout_ChannelAndLogOnlyWriter(t *testing.T) {
	ch := NewChannel(4)
	Fanout{ch, NewWriter(nil)}.Notify(msgs.Notice(domain.NoticeWrongNetwork))

	require.Len(t, ch.C(), 1)
	assert.Equal(t, domain.NoticeWrongNetwork, (<-ch.C()).Kind)
}
