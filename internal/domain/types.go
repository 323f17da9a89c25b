package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// State is the connection state of the wallet session. Whether a payment
// is in flight is reported by TransferService.Pending.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Network is what a provider reports about the chain it is attached to.
type Network struct {
	Name    string
	ChainID int64
}

// Session is the single active wallet connection. It is never mutated in
// place: every transition builds a new value.
//
// ChainID is zero when the chain is unknown.
type Session struct {
	Account     string // lowercase 0x-prefixed hex, empty when disconnected
	Provider    Provider
	ChainID     int64
	NetworkName string
}

// Active reports whether the session can be used to submit transfers.
func (s Session) Active() bool {
	return s.Provider != nil && s.Account != ""
}

// WithAccount returns a copy of s bound to account.
func (s Session) WithAccount(account common.Address) Session {
	s.Account = NormalizeAccount(account)
	return s
}

// WithNetwork returns a copy of s attached to n.
func (s Session) WithNetwork(n Network) Session {
	s.ChainID = n.ChainID
	s.NetworkName = n.Name
	return s
}

// ShortAccount renders the account as 0x1234...abcd.
func (s Session) ShortAccount() string {
	if len(s.Account) <= 10 {
		return s.Account
	}
	return s.Account[:6] + "..." + s.Account[len(s.Account)-4:]
}

// NormalizeAccount returns the lowercase hex form of a.
func NormalizeAccount(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// TransferDraft is what the user typed into the payment form.
type TransferDraft struct {
	Amount string // decimal ETH, e.g. "0.01"
	Memo   string
}

// TxRequest is handed to a Signer. Value is in wei.
type TxRequest struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// Receipt is the subset of an on-chain receipt the app reports on.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Status      uint64
}
