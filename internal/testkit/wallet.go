// Package testkit provides in-memory wallet fakes for service and UI tests.
package testkit

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"tipjar/internal/domain"
	"tipjar/internal/eth"
)

// Provider is a scriptable domain.Provider. Events are raised with Emit.
type Provider struct {
	*eth.Emitter

	mu          sync.Mutex
	Accounts    []common.Address
	AccountsErr error
	Net         domain.Network
	NetErr      error
	Sign        *Signer
	closed      int
}

func NewProvider(account common.Address, chainID int64) *Provider {
	return &Provider{
		Emitter:  eth.NewEmitter(),
		Accounts: []common.Address{account},
		Net:      domain.Network{Name: eth.NetworkName(big.NewInt(chainID)), ChainID: chainID},
		Sign:     NewSigner(account),
	}
}

func (p *Provider) ListAccounts(context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]common.Address(nil), p.Accounts...), p.AccountsErr
}

func (p *Provider) Network(context.Context) (domain.Network, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Net, p.NetErr
}

func (p *Provider) Signer(context.Context) (domain.Signer, error) {
	return p.Sign, nil
}

func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	return nil
}

// Closed reports how many times Close was called.
func (p *Provider) Closed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Listeners counts handlers across all lifecycle events.
func (p *Provider) Listeners() int {
	return p.ListenerCount(domain.EventAccountsChanged) +
		p.ListenerCount(domain.EventChainChanged) +
		p.ListenerCount(domain.EventDisconnect)
}

// Signer records every request. SendErr and WaitErr script failures;
// Block holds SendTransaction and WaitBlock holds TxHandle.Wait until
// closed or the ctx ends.
type Signer struct {
	mu        sync.Mutex
	from      common.Address
	requests  []domain.TxRequest
	SendErr   error
	WaitErr   error
	Block     chan struct{}
	WaitBlock chan struct{}
}

func NewSigner(from common.Address) *Signer { return &Signer{from: from} }

func (s *Signer) Address() common.Address { return s.from }

func (s *Signer) SendTransaction(ctx context.Context, req domain.TxRequest) (domain.TxHandle, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	n := len(s.requests)
	block, sendErr, waitErr, waitBlock := s.Block, s.SendErr, s.WaitErr, s.WaitBlock
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if sendErr != nil {
		return nil, sendErr
	}
	return &TxHandle{hash: common.BigToHash(big.NewInt(int64(n))), err: waitErr, block: waitBlock}, nil
}

// Requests returns a copy of everything sent so far.
func (s *Signer) Requests() []domain.TxRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TxRequest(nil), s.requests...)
}

type TxHandle struct {
	hash  common.Hash
	err   error
	block chan struct{}
}

func (h *TxHandle) Hash() common.Hash { return h.hash }

func (h *TxHandle) Wait(ctx context.Context, _ uint64) (domain.Receipt, error) {
	if h.block != nil {
		select {
		case <-h.block:
		case <-ctx.Done():
			return domain.Receipt{}, ctx.Err()
		}
	}
	if h.err != nil {
		return domain.Receipt{}, h.err
	}
	return domain.Receipt{TxHash: h.hash, BlockNumber: 1, GasUsed: 21_000, Status: 1}, nil
}

// Connector hands out Provider, or fails with Err.
type Connector struct {
	mu       sync.Mutex
	Provider domain.Provider
	Err      error
	Choices  []string
	Cleared  int
}

func (c *Connector) Connect(_ context.Context, choice string) (domain.Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Choices = append(c.Choices, choice)
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Provider, nil
}

func (c *Connector) ClearCachedProvider() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Cleared++
	return nil
}

// Sessions is a SessionService view for transfer tests. Set replaces the
// session and notifies OnChange listeners.
type Sessions struct {
	mu        sync.Mutex
	Session   domain.Session
	listeners map[int]func(domain.Session)
	nextID    int
}

func (s *Sessions) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Session
}

func (s *Sessions) Set(sess domain.Session) {
	s.mu.Lock()
	s.Session = sess
	fns := make([]func(domain.Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

func (s *Sessions) OnChange(fn func(domain.Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[int]func(domain.Session))
	}
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Listeners counts registered OnChange callbacks.
func (s *Sessions) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

var (
	_ domain.Provider  = (*Provider)(nil)
	_ domain.Signer    = (*Signer)(nil)
	_ domain.Connector = (*Connector)(nil)
)
