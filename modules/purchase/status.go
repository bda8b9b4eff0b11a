package purchase

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Status is the observable state of an attempt, published on every transition.
type Status struct {
	State   State
	Message string

	// Reason is set when State is StateFailed.
	Reason Reason

	// FailedAt is the step that failed.
	FailedAt State

	// TxHash is the transaction the attempt is waiting for or finished with, if any.
	TxHash common.Hash

	// Cancellable is false once any transaction of the attempt was accepted by the network.
	Cancellable bool
}

// Observer receives every status of an attempt, in order.
type Observer func(Status)

// Intent is the purchase being attempted. UnitPrice and TotalCost are read right before simulation.
type Intent struct {
	SaleContract   common.Address
	TicketContract common.Address
	Buyer          common.Address
	Quantity       *big.Int
	UnitPrice      *big.Int
	TotalCost      *big.Int
	PaymentToken   common.Address
}

// Transactions lists the transactions accepted by the network during an attempt.
type Transactions struct {
	Wrap    *common.Hash
	Approve *common.Hash
	Buy     *common.Hash
}

// Result is the terminal outcome of an attempt.
type Result struct {
	Status
	Intent       Intent
	Transactions Transactions
	Receipt      *types.Receipt
}
