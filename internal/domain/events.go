package domain

import "github.com/ethereum/go-ethereum/common"

// EventKind names a provider lifecycle event.
type EventKind string

const (
	EventAccountsChanged EventKind = "accountsChanged"
	EventChainChanged    EventKind = "chainChanged"
	EventDisconnect      EventKind = "disconnect"
)

// Event is emitted by a Provider. Only the fields relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Accounts []common.Address // accountsChanged
	Network  Network          // chainChanged
	Err      error            // disconnect
}

// EventHandler receives provider events. Handlers may run on a provider
// goroutine.
type EventHandler func(Event)
