package eth

import (
	"context"
	"math/big"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tipjar/internal/domain"
)

// Backend is the part of *ethclient.Client the app relies on.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// AccountLister returns the accounts a wallet currently exposes.
type AccountLister interface {
	Accounts(ctx context.Context) ([]common.Address, error)
}

// StaticAccounts is an AccountLister for locally held keys.
type StaticAccounts []common.Address

func (s StaticAccounts) Accounts(context.Context) ([]common.Address, error) {
	return slices.Clone(s), nil
}

// SignerFactory builds a signer bound to from.
type SignerFactory func(from common.Address) (domain.Signer, error)

// DefaultMaxPollFailures is how many watcher polls in a row may fail
// before the provider reports a disconnect.
const DefaultMaxPollFailures = 3

// ProviderConfig wires a Provider.
type ProviderConfig struct {
	Backend   Backend
	Accounts  AccountLister
	NewSigner SignerFactory
	// PollInterval drives the event watcher. Zero disables it.
	PollInterval time.Duration
	// MaxPollFailures defaults to DefaultMaxPollFailures.
	MaxPollFailures int
	// Close releases the underlying transport.
	Close func()
}

// Provider implements domain.Provider over an RPC backend.
type Provider struct {
	backend   Backend
	accounts  AccountLister
	newSigner SignerFactory
	emitter   *Emitter
	poll      time.Duration
	maxFails  int
	release   func()

	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewProvider builds the provider and starts its watcher. The watcher's
// baseline is read before NewProvider returns, so any change after that
// point is reported.
func NewProvider(cfg ProviderConfig) *Provider {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Provider{
		backend:   cfg.Backend,
		accounts:  cfg.Accounts,
		newSigner: cfg.NewSigner,
		emitter:   NewEmitter(),
		poll:      cfg.PollInterval,
		maxFails:  cfg.MaxPollFailures,
		release:   cfg.Close,
		cancel:    cancel,
	}
	if p.maxFails <= 0 {
		p.maxFails = DefaultMaxPollFailures
	}
	if p.poll > 0 {
		seedCtx, done := context.WithTimeout(ctx, p.poll)
		base, err := p.snapshot(seedCtx)
		done()
		if err != nil {
			log.Debug().Err(err).Msg("watcher baseline deferred to first poll")
		}
		go p.watch(ctx, base, err == nil)
	}
	return p
}

func (p *Provider) ListAccounts(ctx context.Context) ([]common.Address, error) {
	accs, err := p.accounts.Accounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list accounts")
	}
	return accs, nil
}

func (p *Provider) Network(ctx context.Context) (domain.Network, error) {
	id, err := p.backend.ChainID(ctx)
	if err != nil {
		return domain.Network{}, errors.Wrap(err, "query chain id")
	}
	return domain.Network{Name: NetworkName(id), ChainID: id.Int64()}, nil
}

// Signer returns a signer for the first exposed account.
func (p *Provider) Signer(ctx context.Context) (domain.Signer, error) {
	accs, err := p.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accs) == 0 {
		return nil, domain.ErrNoAccounts
	}
	return p.newSigner(accs[0])
}

func (p *Provider) On(kind domain.EventKind, h domain.EventHandler) func() {
	return p.emitter.On(kind, h)
}

// Close stops the watcher and releases the transport. It does not wait for
// the watcher goroutine, so it is safe to call from an event handler.
func (p *Provider) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		if p.release != nil {
			p.release()
		}
	})
	return nil
}

// chainState is what the watcher compares between polls.
type chainState struct {
	accounts []common.Address
	chainID  *big.Int
}

func (p *Provider) snapshot(ctx context.Context) (chainState, error) {
	accs, err := p.accounts.Accounts(ctx)
	if err != nil {
		return chainState{}, err
	}
	id, err := p.backend.ChainID(ctx)
	if err != nil {
		return chainState{}, err
	}
	return chainState{accounts: accs, chainID: id}, nil
}

// watch polls accounts and chain id and emits an event whenever either
// differs from last. Without a seeded baseline the first good poll becomes
// it. maxFails failed polls in a row emit disconnect and end the watcher.
func (p *Provider) watch(ctx context.Context, last chainState, seeded bool) {
	t := time.NewTicker(p.poll)
	defer t.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		cur, err := p.snapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			log.Warn().Err(err).Int("failures", failures).Msg("wallet provider poll failed")
			if failures < p.maxFails {
				continue
			}
			p.emitter.Emit(domain.Event{Kind: domain.EventDisconnect, Err: err})
			return
		}
		failures = 0

		if !seeded {
			last, seeded = cur, true
			continue
		}
		if !slices.Equal(cur.accounts, last.accounts) {
			p.emitter.Emit(domain.Event{Kind: domain.EventAccountsChanged, Accounts: slices.Clone(cur.accounts)})
		}
		if cur.chainID.Cmp(last.chainID) != 0 {
			p.emitter.Emit(domain.Event{
				Kind:    domain.EventChainChanged,
				Network: domain.Network{Name: NetworkName(cur.chainID), ChainID: cur.chainID.Int64()},
			})
		}
		last = cur
	}
}

var _ domain.Provider = (*Provider)(nil)
