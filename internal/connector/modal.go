package connector

import (
	"context"
	"errors"
	"sort"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tipjar/internal/domain"
)

var (
	ErrNoWalletSelected = errors.New("no wallet selected")
	ErrUnknownWallet    = errors.New("unknown wallet")
)

// Wallet is one selectable wallet option.
type Wallet interface {
	Name() string
	Open(ctx context.Context) (domain.Provider, error)
}

// Modal selects, opens and remembers wallets.
type Modal struct {
	wallets       map[string]Wallet
	cache         domain.ChoiceCache
	cacheProvider bool
}

// NewModal registers wallets. When cacheProvider is set, every successful
// connection is remembered in cache.
func NewModal(cache domain.ChoiceCache, cacheProvider bool, wallets ...Wallet) *Modal {
	m := &Modal{wallets: make(map[string]Wallet, len(wallets)), cache: cache, cacheProvider: cacheProvider}
	for _, w := range wallets {
		m.wallets[w.Name()] = w
	}
	return m
}

// Wallets lists the registered wallet names.
func (m *Modal) Wallets() []string {
	names := make([]string, 0, len(m.wallets))
	for n := range m.wallets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Connect opens choice. An empty choice falls back to the cached choice,
// then to the only registered wallet.
func (m *Modal) Connect(ctx context.Context, choice string) (domain.Provider, error) {
	name, err := m.resolve(choice)
	if err != nil {
		return nil, err
	}
	w, ok := m.wallets[name]
	if !ok {
		return nil, pkgerrors.Wrapf(ErrUnknownWallet, "%q", name)
	}

	p, err := w.Open(ctx)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open %s wallet", name)
	}

	if m.cacheProvider && m.cache != nil {
		if err := m.cache.SaveChoice(name); err != nil {
			log.Warn().Err(err).Str("wallet", name).Msg("could not cache wallet choice")
		}
	}
	log.Debug().Str("wallet", name).Msg("wallet opened")
	return p, nil
}

// ClearCachedProvider forgets the cached wallet choice.
func (m *Modal) ClearCachedProvider() error {
	if m.cache == nil {
		return nil
	}
	return m.cache.ClearChoice()
}

// CachedChoice reports the remembered wallet, if any.
func (m *Modal) CachedChoice() (string, bool) {
	if m.cache == nil {
		return "", false
	}
	name, ok, err := m.cache.LoadChoice()
	if err != nil {
		log.Warn().Err(err).Msg("could not read cached wallet choice")
		return "", false
	}
	return name, ok
}

func (m *Modal) resolve(choice string) (string, error) {
	if choice != "" {
		return choice, nil
	}
	if name, ok := m.CachedChoice(); ok {
		return name, nil
	}
	if len(m.wallets) == 1 {
		for name := range m.wallets {
			return name, nil
		}
	}
	return "", ErrNoWalletSelected
}

var _ domain.Connector = (*Modal)(nil)
