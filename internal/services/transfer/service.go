package transfer

import (
	"context"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tipjar/internal/domain"
	"tipjar/internal/eth"
	"tipjar/internal/metrics"
)

// SessionReader is the part of the session service a submitter needs.
type SessionReader interface {
	Current() domain.Session
	OnChange(fn func(domain.Session)) (unsubscribe func())
}

// Config carries the payment policy.
type Config struct {
	Recipient     common.Address
	Confirmations uint64
	// AttachMemo sends a non-empty memo as UTF-8 calldata.
	AttachMemo bool
	Messages   domain.Messages
}

// Service is the Transfer Submitter. At most one submission is in flight.
type Service struct {
	sessions SessionReader
	notifier domain.Notifier
	cfg      Config
	metrics  *metrics.Metrics
	pending  atomic.Bool
}

// New constructs a Transfer Service. m may be nil.
func New(sessions SessionReader, notifier domain.Notifier, cfg Config, m *metrics.Metrics) *Service {
	if cfg.Confirmations == 0 {
		cfg.Confirmations = 1
	}
	return &Service{sessions: sessions, notifier: notifier, cfg: cfg, metrics: m}
}

// Submit sends draft.Amount ETH to the fixed recipient and waits for it to
// be mined.
//
// It returns domain.ErrSendPending while another submission is running and
// domain.ErrNoSession without an active session; neither emits a notice.
// Every other failure (bad amount, rejection, broadcast, revert, ctx)
// emits the payment-failed notice and matches domain.ErrPaymentFailed.
// The session is never modified. If it ends while the payment is in
// flight, the payment fails with an error matching domain.ErrSessionEnded.
func (s *Service) Submit(ctx context.Context, draft domain.TransferDraft) (domain.Receipt, error) {
	if !s.pending.CompareAndSwap(false, true) {
		return domain.Receipt{}, domain.ErrSendPending
	}
	s.metrics.SetPending(true)
	defer func() {
		s.pending.Store(false)
		s.metrics.SetPending(false)
	}()

	sess := s.sessions.Current()
	if !sess.Active() {
		return domain.Receipt{}, domain.ErrNoSession
	}

	ctx, stop := s.bindSession(ctx, sess)
	defer stop()

	receipt, err := s.send(ctx, sess, draft)
	if err != nil && errors.Is(context.Cause(ctx), domain.ErrSessionEnded) {
		err = errors.Wrap(domain.ErrSessionEnded, err.Error())
	}
	if err != nil {
		log.Error().Err(err).Str("amount", draft.Amount).Str("account", sess.Account).Msg("payment failed")
		s.notify(domain.NoticePaymentFailed)
		s.metrics.PaymentResult(false)
		return domain.Receipt{}, &domain.Failure{Category: domain.ErrPaymentFailed, Cause: err}
	}

	log.Info().
		Str("tx", receipt.TxHash.Hex()).
		Uint64("block", receipt.BlockNumber).
		Str("amount", draft.Amount).
		Msg("payment confirmed")
	s.notify(domain.NoticePaymentSent)
	s.metrics.PaymentResult(true)
	return receipt, nil
}

// bindSession derives a ctx that is cancelled once sess stops being the
// active session, so a disconnect ends a pending send or wait.
func (s *Service) bindSession(ctx context.Context, sess domain.Session) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	ended := func(cur domain.Session) bool { return cur.Provider != sess.Provider }

	unsubscribe := s.sessions.OnChange(func(next domain.Session) {
		if ended(next) {
			cancel(domain.ErrSessionEnded)
		}
	})
	// The session may have ended before the listener was registered.
	if ended(s.sessions.Current()) {
		cancel(domain.ErrSessionEnded)
	}
	return ctx, func() {
		unsubscribe()
		cancel(nil)
	}
}

// Pending reports whether a submission is in flight.
func (s *Service) Pending() bool { return s.pending.Load() }

func (s *Service) send(ctx context.Context, sess domain.Session, draft domain.TransferDraft) (domain.Receipt, error) {
	value, err := eth.ParseEther(draft.Amount)
	if err != nil {
		return domain.Receipt{}, errors.Wrapf(err, "parse amount %q", draft.Amount)
	}
	signer, err := sess.Provider.Signer(ctx)
	if err != nil {
		return domain.Receipt{}, errors.Wrap(err, "get signer")
	}

	req := domain.TxRequest{To: s.cfg.Recipient, Value: value}
	if s.cfg.AttachMemo && draft.Memo != "" {
		req.Data = []byte(draft.Memo)
	}
	tx, err := signer.SendTransaction(ctx, req)
	if err != nil {
		return domain.Receipt{}, errors.Wrap(err, "send transaction")
	}
	log.Debug().Str("tx", tx.Hash().Hex()).Msg("waiting for confirmation")

	receipt, err := tx.Wait(ctx, s.cfg.Confirmations)
	if err != nil {
		return domain.Receipt{}, errors.Wrapf(err, "wait for %s", tx.Hash().Hex())
	}
	return receipt, nil
}

func (s *Service) notify(kind domain.NoticeKind) {
	if s.notifier != nil {
		s.notifier.Notify(s.cfg.Messages.Notice(kind))
	}
}

var _ domain.TransferService = (*Service)(nil)
