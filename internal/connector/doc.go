// Package connector discovers and opens wallets.
//
// Modal holds the configured wallet options and picks one either from an
// explicit choice or from the cached choice of a previous run. Three
// wallet kinds are provided:
//
//   - injected  an external signer reachable over JSON-RPC (Frame, Clef,
//     a development node) that owns the keys and signs through
//     eth_sendTransaction
//   - keystore  a go-ethereum encrypted keystore directory
//   - mnemonic  a BIP-39 mnemonic from the local vault, derived along
//     m/44'/60'/0'/0/<index>
//
// The last two sign locally and broadcast through the network RPC endpoint.
package connector
