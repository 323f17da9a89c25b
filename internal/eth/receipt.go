package eth

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tipjar/internal/domain"
)

// ErrTxReverted is returned by Wait when the transaction was mined with a
// failed status.
var ErrTxReverted = errors.New("transaction reverted")

// DefaultReceiptInterval is how often Wait polls for a receipt.
const DefaultReceiptInterval = 2 * time.Second

// maxLookupFailures is how many receipt lookups in a row may fail, other
// than with "not found", before Wait gives up.
const maxLookupFailures = 5

// ReceiptBackend is what waiting for a receipt needs.
type ReceiptBackend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// TxHandle tracks a broadcast transaction by hash.
type TxHandle struct {
	hash     common.Hash
	backend  ReceiptBackend
	interval time.Duration
}

func NewTxHandle(hash common.Hash, backend ReceiptBackend, interval time.Duration) *TxHandle {
	if interval <= 0 {
		interval = DefaultReceiptInterval
	}
	return &TxHandle{hash: hash, backend: backend, interval: interval}
}

func (h *TxHandle) Hash() common.Hash { return h.hash }

// Wait blocks until the receipt exists and the chain head is at least
// confirmations-1 blocks past it. A closed client, or maxLookupFailures
// failed lookups in a row, ends the wait with an error; otherwise only ctx
// bounds it.
func (h *TxHandle) Wait(ctx context.Context, confirmations uint64) (domain.Receipt, error) {
	if confirmations == 0 {
		confirmations = 1
	}
	t := time.NewTicker(h.interval)
	defer t.Stop()

	failures := 0
	for {
		r, err := h.backend.TransactionReceipt(ctx, h.hash)
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			if errors.Is(err, rpc.ErrClientQuit) {
				return domain.Receipt{}, errors.Wrapf(err, "receipt for %s", h.hash.Hex())
			}
			failures++
			log.Debug().Err(err).Str("tx", h.hash.Hex()).Int("failures", failures).Msg("receipt retrieval failed")
			if failures >= maxLookupFailures {
				return domain.Receipt{}, errors.Wrapf(err, "receipt for %s: %d lookups failed", h.hash.Hex(), failures)
			}
		} else {
			failures = 0
		}

		if err == nil && r != nil {
			ok, herr := h.confirmed(ctx, r, confirmations)
			if herr != nil {
				log.Debug().Err(herr).Str("tx", h.hash.Hex()).Msg("head query failed")
			}
			if ok {
				out := domain.Receipt{
					TxHash:      r.TxHash,
					BlockNumber: r.BlockNumber.Uint64(),
					GasUsed:     r.GasUsed,
					Status:      r.Status,
				}
				if r.Status != types.ReceiptStatusSuccessful {
					return out, ErrTxReverted
				}
				return out, nil
			}
		}

		select {
		case <-ctx.Done():
			return domain.Receipt{}, ctx.Err()
		case <-t.C:
		}
	}
}

func (h *TxHandle) confirmed(ctx context.Context, r *types.Receipt, confirmations uint64) (bool, error) {
	if confirmations <= 1 {
		return true, nil
	}
	head, err := h.backend.BlockNumber(ctx)
	if err != nil {
		return false, err
	}
	mined := r.BlockNumber.Uint64()
	return head >= mined && head-mined+1 >= confirmations, nil
}

var _ domain.TxHandle = (*TxHandle)(nil)
