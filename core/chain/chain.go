// Package chain describes the remote ledger as the storefront needs it: an append-only event source,
// side-effect-free contract reads and state-changing contract calls. The go-ethereum implementation
// lives in core/evm; tests use in-memory fakes.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Call is a single contract function invocation.
type Call struct {
	To     common.Address
	ABI    *abi.ABI
	Method string
	Args   []any

	// Value is the native currency attached to the call (payable functions only).
	Value *big.Int
}

// EventSource reads the append-only log history of the chain.
type EventSource interface {
	// BlockNumber returns the current chain head.
	BlockNumber(ctx context.Context) (uint64, error)

	// GetLogs returns logs emitted by address with the first topic equal to event, within [from, to].
	GetLogs(ctx context.Context, address common.Address, event common.Hash, from, to uint64) ([]types.Log, error)
}

// Reader performs side-effect-free contract reads.
type Reader interface {
	// Read executes a single call and returns its unpacked outputs.
	Read(ctx context.Context, call Call) ([]any, error)

	// ReadBatch executes all calls in one remote round trip. The batch fails as a whole
	// if any call fails.
	ReadBatch(ctx context.Context, calls []Call) ([][]any, error)
}

// Request is a call validated by simulation, ready to be signed and submitted as-is.
type Request struct {
	Call
	From common.Address
	Data []byte
	Gas  uint64
}

// Transactor performs state-changing contract calls on behalf of a signing identity.
type Transactor interface {
	// Simulate dry-runs the call from the given account without submitting it.
	Simulate(ctx context.Context, call Call, from common.Address) (*Request, error)

	// Submit signs and sends a validated request. It returns as soon as the network accepted it.
	Submit(ctx context.Context, req *Request) (common.Hash, error)

	// WaitForInclusion blocks until the transaction is included in a block.
	WaitForInclusion(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// Wallet is the connected signing identity.
type Wallet interface {
	// Account returns the connected account, or false if no wallet is connected.
	Account() (common.Address, bool)
}

// StaticWallet is a Wallet with a fixed account. The zero value is a disconnected wallet.
type StaticWallet struct {
	Address   common.Address
	Connected bool
}

func (w StaticWallet) Account() (common.Address, bool) {
	return w.Address, w.Connected
}

// ZeroAddress is the fallback for address fields missing from malformed logs.
var ZeroAddress = common.Address{}
