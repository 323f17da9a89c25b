package eth

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeBackend is an in-memory Backend.
type fakeBackend struct {
	mu       sync.Mutex
	chainID  int64
	chainErr error
	head     uint64
	baseFee  *big.Int
	tip      *big.Int
	price    *big.Int
	nonce    uint64
	gas      uint64
	sendErr  error
	sent     []*types.Transaction
	calls    []ethereum.CallMsg
	receipts map[common.Hash]*types.Receipt

	receiptErr     error
	receiptErrLeft int // negative fails forever
	receiptCalls   int
}

func newFakeBackend(chainID int64) *fakeBackend {
	return &fakeBackend{
		chainID:  chainID,
		head:     100,
		baseFee:  big.NewInt(10_000_000_000),
		tip:      big.NewInt(1_000_000_000),
		price:    big.NewInt(20_000_000_000),
		nonce:    7,
		gas:      21_000,
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (b *fakeBackend) setChain(id int64, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chainID, b.chainErr = id, err
}

func (b *fakeBackend) setReceipt(r *types.Receipt) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receipts[r.TxHash] = r
}

func (b *fakeBackend) setHead(n uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = n
}

func (b *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.chainErr != nil {
		return nil, b.chainErr
	}
	return big.NewInt(b.chainID), nil
}

func (b *fakeBackend) BlockNumber(context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.head, nil
}

func (b *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &types.Header{Number: new(big.Int).SetUint64(b.head), BaseFee: b.baseFee}, nil
}

func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return b.nonce, nil
}

func (b *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) { return b.price, nil }

func (b *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) { return b.tip, nil }

func (b *fakeBackend) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, msg)
	return b.gas, nil
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, tx)
	return nil
}

// failReceipts makes the next n lookups return err; n < 0 means all of them.
func (b *fakeBackend) failReceipts(err error, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receiptErr, b.receiptErrLeft = err, n
}

func (b *fakeBackend) receiptLookups() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.receiptCalls
}

func (b *fakeBackend) TransactionReceipt(_ context.Context, h common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receiptCalls++
	if b.receiptErr != nil && b.receiptErrLeft != 0 {
		if b.receiptErrLeft > 0 {
			b.receiptErrLeft--
		}
		return nil, b.receiptErr
	}
	r, ok := b.receipts[h]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}
