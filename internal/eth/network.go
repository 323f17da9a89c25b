package eth

import (
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// Chain ids that predate or sit outside go-ethereum's bundled configs.
var legacyNetworks = map[int64]string{
	4:   "rinkeby",
	5:   "goerli",
	137: "matic",
}

// NetworkName maps a chain id to its conventional name, or "unknown".
func NetworkName(chainID *big.Int) string {
	if chainID == nil {
		return "unknown"
	}
	switch {
	case chainID.Cmp(params.MainnetChainConfig.ChainID) == 0:
		return "homestead"
	case chainID.Cmp(params.SepoliaChainConfig.ChainID) == 0:
		return "sepolia"
	case chainID.Cmp(params.HoleskyChainConfig.ChainID) == 0:
		return "holesky"
	}
	if chainID.IsInt64() {
		if name, ok := legacyNetworks[chainID.Int64()]; ok {
			return name
		}
	}
	return "unknown"
}
