// Package eth adapts go-ethereum clients to the domain Provider and Signer
// contracts.
//
// A Provider wraps an RPC backend, an account source and a signer factory,
// and emits accountsChanged/chainChanged/disconnect events from a polling
// watcher. Signers come in two flavours: KeySigner builds, signs and
// broadcasts transactions locally; RPCSigner delegates to an external
// signer through eth_sendTransaction. Both return handles whose Wait polls
// for the receipt.
//
// ParseEther and FormatEther convert between decimal ETH strings and wei.
package eth
