package session

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tipjar/internal/domain"
	"tipjar/internal/metrics"
)

// Config carries the session policy.
type Config struct {
	// ExpectedChainID triggers the wrong-network notice when the wallet
	// reports another chain. Zero disables the check.
	ExpectedChainID int64
	Messages        domain.Messages
}

// Service is the Wallet Session Manager.
//
// Exactly one session is active at a time. The current session is
// replaced wholesale on every transition and handed to OnChange listeners.
// Provider events for a session that has since been replaced are ignored.
type Service struct {
	connector domain.Connector
	notifier  domain.Notifier
	cfg       Config
	metrics   *metrics.Metrics

	mu      sync.RWMutex
	session domain.Session
	state   domain.State
	gen     uint64
	unsubs  []func()

	lmu       sync.Mutex
	listeners map[uint64]func(domain.Session)
	nextID    uint64
}

// New constructs a Session Service. m may be nil.
func New(connector domain.Connector, notifier domain.Notifier, cfg Config, m *metrics.Metrics) *Service {
	return &Service{
		connector: connector,
		notifier:  notifier,
		cfg:       cfg,
		metrics:   m,
		listeners: make(map[uint64]func(domain.Session)),
	}
}

// Connect opens a wallet and makes it the active session.
//
// Steps:
//  1. Tear down any previous session (without forgetting the cached choice).
//  2. Ask the connector for a provider.
//  3. Read the first account and the network.
//  4. Subscribe to provider events and publish the new session.
//  5. Notify success, then warn if the chain is not the expected one.
//
// Any failure leaves the service disconnected, emits the connect-failed
// notice and returns an error matching domain.ErrConnectFailed.
func (s *Service) Connect(ctx context.Context, choice string) (domain.Session, error) {
	s.mu.Lock()
	if s.state == domain.StateConnecting {
		s.mu.Unlock()
		return domain.Session{}, domain.ErrConnectPending
	}
	s.gen++
	gen := s.gen
	prev := s.teardownLocked()
	s.state = domain.StateConnecting
	s.mu.Unlock()

	if prev != nil {
		closeProvider(prev)
		s.publish(domain.Session{})
	}

	sess, err := s.open(ctx, choice)
	if err == nil {
		s.mu.Lock()
		if s.gen != gen {
			err = errors.New("connection superseded by disconnect")
		} else {
			s.session = sess
			s.state = domain.StateConnected
			s.unsubs = s.subscribeLocked(gen, sess.Provider)
		}
		s.mu.Unlock()
		if err != nil {
			closeProvider(sess.Provider)
		}
	}

	if err != nil {
		log.Error().Err(err).Str("wallet", choice).Msg("wallet connection failed")
		s.mu.Lock()
		if s.gen == gen {
			s.state = domain.StateDisconnected
		}
		s.mu.Unlock()
		s.notify(domain.NoticeConnectFailed)
		s.metrics.ConnectResult(false)
		return domain.Session{}, &domain.Failure{Category: domain.ErrConnectFailed, Cause: err}
	}

	log.Info().
		Str("account", sess.Account).
		Int64("chain_id", sess.ChainID).
		Str("network", sess.NetworkName).
		Msg("wallet connected")
	s.publish(sess)
	s.notify(domain.NoticeConnected)
	s.metrics.ConnectResult(true)
	s.checkNetwork(sess)
	return sess, nil
}

func (s *Service) open(ctx context.Context, choice string) (domain.Session, error) {
	p, err := s.connector.Connect(ctx, choice)
	if err != nil {
		return domain.Session{}, err
	}
	accounts, err := p.ListAccounts(ctx)
	if err != nil {
		closeProvider(p)
		return domain.Session{}, errors.Wrap(err, "list accounts")
	}
	if len(accounts) == 0 {
		closeProvider(p)
		return domain.Session{}, domain.ErrNoAccounts
	}
	network, err := p.Network(ctx)
	if err != nil {
		closeProvider(p)
		return domain.Session{}, errors.Wrap(err, "get network")
	}
	return domain.Session{Provider: p}.WithAccount(accounts[0]).WithNetwork(network), nil
}

// Disconnect forgets the cached wallet choice, removes every provider
// listener, closes the provider and publishes an empty session.
func (s *Service) Disconnect() error {
	err := s.connector.ClearCachedProvider()
	if err != nil {
		log.Warn().Err(err).Msg("could not clear cached wallet")
		err = errors.Wrap(err, "clear cached wallet")
	}
	s.end()
	log.Info().Msg("wallet disconnected")
	return err
}

// Close ends the session but keeps the cached wallet choice, so the next
// run reconnects to the same wallet.
func (s *Service) Close() error {
	s.end()
	return nil
}

func (s *Service) end() {
	s.mu.Lock()
	s.gen++
	p := s.teardownLocked()
	s.state = domain.StateDisconnected
	s.mu.Unlock()

	closeProvider(p)
	s.publish(domain.Session{})
}

// Current returns the active session, or the zero Session.
func (s *Service) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Service) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// OnChange registers fn to receive every new session value.
func (s *Service) OnChange(fn func(domain.Session)) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	return sync.OnceFunc(func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	})
}

// ---------- provider events ----------

func (s *Service) subscribeLocked(gen uint64, p domain.Provider) []func() {
	return []func(){
		p.On(domain.EventAccountsChanged, s.guard(gen, s.onAccountsChanged)),
		p.On(domain.EventChainChanged, s.guard(gen, s.onChainChanged)),
		p.On(domain.EventDisconnect, s.guard(gen, s.onDisconnect)),
	}
}

// guard drops events that belong to an earlier session.
func (s *Service) guard(gen uint64, h domain.EventHandler) domain.EventHandler {
	return func(ev domain.Event) {
		s.mu.RLock()
		stale := s.gen != gen
		s.mu.RUnlock()
		if stale {
			return
		}
		h(ev)
	}
}

func (s *Service) onAccountsChanged(ev domain.Event) {
	if len(ev.Accounts) == 0 {
		log.Info().Msg("wallet exposes no accounts anymore")
		_ = s.Disconnect()
		return
	}
	if sess, ok := s.replace(func(cur domain.Session) domain.Session {
		return cur.WithAccount(ev.Accounts[0])
	}); ok {
		log.Info().Str("account", sess.Account).Msg("wallet account changed")
	}
}

func (s *Service) onChainChanged(ev domain.Event) {
	sess, ok := s.replace(func(cur domain.Session) domain.Session {
		return cur.WithNetwork(ev.Network)
	})
	if !ok {
		return
	}
	log.Info().Int64("chain_id", sess.ChainID).Str("network", sess.NetworkName).Msg("wallet chain changed")
	s.checkNetwork(sess)
}

func (s *Service) onDisconnect(ev domain.Event) {
	log.Warn().Err(ev.Err).Msg("wallet provider disconnected")
	_ = s.Disconnect()
}

// replace swaps the active session for fn(current) and publishes it.
func (s *Service) replace(fn func(domain.Session) domain.Session) (domain.Session, bool) {
	s.mu.Lock()
	if !s.session.Active() {
		s.mu.Unlock()
		return domain.Session{}, false
	}
	next := fn(s.session)
	s.session = next
	s.mu.Unlock()

	s.publish(next)
	return next, true
}

// ---------- helpers ----------

// teardownLocked removes listeners and clears the session, returning the
// provider for the caller to close outside the lock.
func (s *Service) teardownLocked() domain.Provider {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	p := s.session.Provider
	s.session = domain.Session{}
	return p
}

func (s *Service) checkNetwork(sess domain.Session) {
	if s.cfg.ExpectedChainID == 0 || sess.ChainID == s.cfg.ExpectedChainID {
		return
	}
	log.Warn().
		Int64("chain_id", sess.ChainID).
		Int64("expected_chain_id", s.cfg.ExpectedChainID).
		Msg("wallet is on the wrong network")
	s.notify(domain.NoticeWrongNetwork)
}

func (s *Service) notify(kind domain.NoticeKind) {
	if s.notifier != nil {
		s.notifier.Notify(s.cfg.Messages.Notice(kind))
	}
}

func (s *Service) publish(sess domain.Session) {
	s.lmu.Lock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(domain.Session), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

func closeProvider(p domain.Provider) {
	if p == nil {
		return
	}
	if err := p.Close(); err != nil {
		log.Debug().Err(err).Msg("provider close failed")
	}
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
