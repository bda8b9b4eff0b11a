// Package purchase buys tickets of a sale: it checks every precondition, wraps and approves the
// payment token when needed, simulates the purchase and only then submits it.
package purchase

import (
	"context"
	"math/big"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/modules/purchase/config"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
)

// Orchestrator runs purchase attempts. Attempts share no state; an Orchestrator can run many concurrently.
type Orchestrator struct {
	reader     chain.Reader
	transactor chain.Transactor
	wallet     chain.Wallet
	config     config.Config
	now        func() time.Time
}

func New(reader chain.Reader, transactor chain.Transactor, wallet chain.Wallet, conf config.Config) *Orchestrator {
	return &Orchestrator{
		reader:     reader,
		transactor: transactor,
		wallet:     wallet,
		config:     conf,
		now:        time.Now,
	}
}

// Request identifies the sale and carries the quantity as typed by the user.
type Request struct {
	SaleContract   common.Address
	TicketContract common.Address
	Quantity       string
}

// Begin creates an attempt in StateIdle. observer may be nil.
func (o *Orchestrator) Begin(req Request, observer Observer) *Attempt {
	return &Attempt{
		o:        o,
		req:      req,
		observer: observer,
		status: Status{
			State:       StateIdle,
			Cancellable: true,
		},
	}
}

// Purchase runs a new attempt to completion.
func (o *Orchestrator) Purchase(ctx context.Context, req Request, observer Observer) Result {
	return o.Begin(req, observer).Run(ctx)
}

// Attempt is a single purchase attempt. Cancelling the context of Run abandons the attempt
// as long as no transaction was accepted; afterwards cancellation is ignored.
type Attempt struct {
	o        *Orchestrator
	req      Request
	observer Observer

	once   sync.Once
	result Result

	mu     sync.RWMutex
	status Status

	// owned by the goroutine calling Run
	intent    Intent
	txs       Transactions
	balance   *big.Int
	allowance *big.Int
	receipt   *types.Receipt
	accepted  bool
}

// Status returns the current status.
func (a *Attempt) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Cancellable reports whether abandoning the attempt is still possible.
func (a *Attempt) Cancellable() bool {
	return a.Status().Cancellable
}

// Run executes the attempt. Subsequent calls return the first result without side effects.
func (a *Attempt) Run(ctx context.Context) Result {
	a.once.Do(func() {
		a.result = a.run(ctx)
	})
	return a.result
}

func (a *Attempt) run(ctx context.Context) Result {
	ctx = logger.WithContext(ctx,
		slogx.String("package", "purchase"),
		slogx.Stringer("sale", a.req.SaleContract),
	)

	err := a.execute(ctx)
	result := Result{
		Intent:       a.intent,
		Transactions: a.txs,
	}
	if err == nil {
		result.Status = a.Status()
		result.Receipt = a.receipt
		return result
	}

	var (
		p *pending
		f *failure
	)
	switch {
	case errors.As(err, &p):
		a.transition(ctx, Status{
			State:   StatePending,
			Message: "Transaction " + p.hash.Hex() + " is still pending, check back later",
			TxHash:  p.hash,
		})
	case errors.As(err, &f):
		a.transition(ctx, Status{
			State:    StateFailed,
			Reason:   f.reason,
			Message:  f.message,
			FailedAt: a.Status().State,
			TxHash:   a.Status().TxHash,
		})
	default:
		a.transition(ctx, Status{
			State:    StateFailed,
			Reason:   ReasonUnexpected,
			Message:  err.Error(),
			FailedAt: a.Status().State,
		})
	}
	result.Status = a.Status()
	return result
}

// transition publishes a new status. Cancellable is derived from the attempt.
func (a *Attempt) transition(ctx context.Context, status Status) {
	status.Cancellable = !a.accepted && status.State.abandonable()

	a.mu.Lock()
	a.status = status
	a.mu.Unlock()

	attrs := []any{
		slogx.Stringer("state", status.State),
		slogx.String("message", status.Message),
	}
	if status.TxHash != (common.Hash{}) {
		attrs = append(attrs, slogx.Stringer("tx_hash", status.TxHash))
	}
	switch {
	case status.State == StateFailed && status.Reason == ReasonInconsistent:
		logger.ErrorContext(ctx, "Purchase failed, inconsistent sale state",
			append(attrs, slogx.String("event", "data_inconsistency"), slogx.Stringer("failed_at", status.FailedAt))...)
	case status.State == StateFailed:
		logger.WarnContext(ctx, "Purchase failed",
			append(attrs, slogx.Stringer("reason", status.Reason), slogx.Stringer("failed_at", status.FailedAt))...)
	default:
		logger.DebugContext(ctx, "Purchase status changed", attrs...)
	}

	if a.observer != nil {
		a.observer(status)
	}
}

var quantityPattern = regexp.MustCompile(`^\d+$`)

func parseQuantity(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if !quantityPattern.MatchString(s) {
		return nil, false
	}
	quantity, ok := new(big.Int).SetString(s, 10)
	if !ok || quantity.Sign() <= 0 {
		return nil, false
	}
	return quantity, true
}
