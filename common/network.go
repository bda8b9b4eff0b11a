package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type Network string

const (
	NetworkSepolia Network = "sepolia"
	NetworkMainnet Network = "mainnet"
)

// NetworkParams are the deployment constants of the ticketing contracts on a network.
type NetworkParams struct {
	ChainID *big.Int

	// FactoryAddress is the sale factory emitting `EventCreated` logs.
	FactoryAddress common.Address

	// GenesisBlock is the block the factory was deployed at. Log scans never start before it.
	GenesisBlock uint64

	// DefaultRPC is a public JSON-RPC endpoint, used when no endpoint is configured.
	DefaultRPC string
}

var networkParams = map[Network]NetworkParams{
	NetworkSepolia: {
		ChainID:        big.NewInt(11155111),
		FactoryAddress: common.HexToAddress("0x24b0835e023965134357ec9cf72cc5aca8b19b59"),
		GenesisBlock:   10231714,
		DefaultRPC:     "https://ethereum-sepolia-rpc.publicnode.com",
	},
}

// IsSupported reports whether the factory is deployed on the network.
func (n Network) IsSupported() bool {
	_, ok := networkParams[n]
	return ok
}

func (n Network) Params() NetworkParams {
	return networkParams[n]
}

func (n Network) ChainID() *big.Int {
	if p, ok := networkParams[n]; ok {
		return new(big.Int).Set(p.ChainID)
	}
	return nil
}

func (n Network) String() string {
	return string(n)
}
