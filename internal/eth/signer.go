package eth

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tipjar/internal/domain"
)

// SignFunc signs tx for chainID.
type SignFunc func(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)

// PrivateKeySignFunc signs with an in-memory key.
func PrivateKeySignFunc(key *ecdsa.PrivateKey) SignFunc {
	return func(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
		return types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	}
}

// KeySigner fills in nonce, fees and gas, signs locally and broadcasts
// through the backend.
type KeySigner struct {
	backend  Backend
	from     common.Address
	sign     SignFunc
	interval time.Duration
}

func NewKeySigner(backend Backend, from common.Address, sign SignFunc) *KeySigner {
	return &KeySigner{backend: backend, from: from, sign: sign}
}

// NewPrivateKeySigner is NewKeySigner for a raw key.
func NewPrivateKeySigner(backend Backend, key *ecdsa.PrivateKey) *KeySigner {
	return NewKeySigner(backend, crypto.PubkeyToAddress(key.PublicKey), PrivateKeySignFunc(key))
}

func (s *KeySigner) Address() common.Address { return s.from }

// WithReceiptInterval sets how often returned handles poll for receipts.
func (s *KeySigner) WithReceiptInterval(d time.Duration) *KeySigner {
	s.interval = d
	return s
}

func (s *KeySigner) SendTransaction(ctx context.Context, req domain.TxRequest) (domain.TxHandle, error) {
	tx, chainID, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	signed, err := s.sign(tx, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}
	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return nil, errors.Wrap(err, "broadcast transaction")
	}
	log.Info().
		Str("tx", signed.Hash().Hex()).
		Str("from", s.from.Hex()).
		Str("to", req.To.Hex()).
		Str("value", req.Value.String()).
		Msg("transaction broadcast")
	return NewTxHandle(signed.Hash(), s.backend, s.interval), nil
}

func (s *KeySigner) build(ctx context.Context, req domain.TxRequest) (*types.Transaction, *big.Int, error) {
	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "query chain id")
	}
	nonce, err := s.backend.PendingNonceAt(ctx, s.from)
	if err != nil {
		return nil, nil, errors.Wrap(err, "query nonce")
	}
	to := req.To
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{From: s.from, To: &to, Value: value, Data: req.Data})
	if err != nil {
		return nil, nil, errors.Wrap(err, "estimate gas")
	}

	head, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "query head")
	}
	if head.BaseFee == nil {
		price, err := s.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, nil, errors.Wrap(err, "suggest gas price")
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: price,
			Gas:      gas,
			To:       &to,
			Value:    value,
			Data:     req.Data,
		}), chainID, nil
	}

	tip, err := s.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "suggest gas tip")
	}
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      req.Data,
	}), chainID, nil
}

// Caller is the JSON-RPC surface of *rpc.Client.
type Caller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// RPCAccounts lists accounts through eth_accounts.
type RPCAccounts struct {
	Caller Caller
}

func (a RPCAccounts) Accounts(ctx context.Context) ([]common.Address, error) {
	var accs []common.Address
	if err := a.Caller.CallContext(ctx, &accs, "eth_accounts"); err != nil {
		return nil, err
	}
	return accs, nil
}

// RPCSigner asks an external wallet to sign and broadcast through
// eth_sendTransaction.
type RPCSigner struct {
	caller   Caller
	receipts ReceiptBackend
	from     common.Address
	interval time.Duration
}

func NewRPCSigner(caller Caller, receipts ReceiptBackend, from common.Address) *RPCSigner {
	return &RPCSigner{caller: caller, receipts: receipts, from: from}
}

func (s *RPCSigner) Address() common.Address { return s.from }

// WithReceiptInterval sets how often returned handles poll for receipts.
func (s *RPCSigner) WithReceiptInterval(d time.Duration) *RPCSigner {
	s.interval = d
	return s
}

type sendTxArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value"`
	Data  *hexutil.Bytes `json:"data,omitempty"`
}

func (s *RPCSigner) SendTransaction(ctx context.Context, req domain.TxRequest) (domain.TxHandle, error) {
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	args := sendTxArgs{From: s.from, To: req.To, Value: (*hexutil.Big)(value)}
	if len(req.Data) > 0 {
		data := hexutil.Bytes(req.Data)
		args.Data = &data
	}

	var hash common.Hash
	if err := s.caller.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return nil, errors.Wrap(err, "eth_sendTransaction")
	}
	log.Info().
		Str("tx", hash.Hex()).
		Str("from", s.from.Hex()).
		Str("to", req.To.Hex()).
		Str("value", value.String()).
		Msg("transaction submitted to wallet")
	return NewTxHandle(hash, s.receipts, s.interval), nil
}

var (
	_ domain.Signer = (*KeySigner)(nil)
	_ domain.Signer = (*RPCSigner)(nil)
)
