package eth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar/internal/domain"
)

func TestEmitter_SubscribeUnsubscribe(t *testing.T) {
	e := NewEmitter()

	var got []string
	offA := e.On(domain.EventChainChanged, func(domain.Event) { got = append(got, "a") })
	offB := e.On(domain.EventChainChanged, func(domain.Event) { got = append(got, "b") })
	e.On(domain.EventDisconnect, func(domain.Event) { got = append(got, "d") })

	e.Emit(domain.Event{Kind: domain.EventChainChanged})
	assert.Equal(t, []string{"a", "b"}, got)
	require.Equal(t, 2, e.ListenerCount(domain.EventChainChanged))

	offA()
	offA()
	assert.Equal(t, 1, e.ListenerCount(domain.EventChainChanged))

	got = nil
	e.Emit(domain.Event{Kind: domain.EventChainChanged})
	assert.Equal(t, []string{"b"}, got)

	offB()
	assert.Zero(t, e.ListenerCount(domain.EventChainChanged))
	assert.Equal(t, 1, e.ListenerCount(domain.EventDisconnect))
}

func TestEmitter_HandlerMayUnsubscribeDuringEmit(t *testing.T) {
	e := NewEmitter()

	calls := 0
	var off func()
	off = e.On(domain.EventDisconnect, func(domain.Event) {
		calls++
		off()
	})

	e.Emit(domain.Event{Kind: domain.EventDisconnect})
	e.Emit(domain.Event{Kind: domain.EventDisconnect})

	assert.Equal(t, 1, calls)
	assert.Zero(t, e.ListenerCount(domain.EventDisconnect))
}
