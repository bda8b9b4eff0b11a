package purchase

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/core/contracts"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
	"github.com/gaze-network/ticket-storefront/pkg/decimals"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
	"golang.org/x/sync/errgroup"
)

// execute runs the steps in order. Wrapping and approving are skipped when not needed.
func (a *Attempt) execute(ctx context.Context) error {
	if err := a.validate(ctx); err != nil {
		return err
	}
	if err := a.checkAvailability(ctx); err != nil {
		return err
	}
	if err := a.checkBalance(ctx); err != nil {
		return err
	}
	if a.balance.Cmp(a.intent.TotalCost) < 0 {
		if err := a.wrap(ctx); err != nil {
			return err
		}
	}
	if a.allowance.Cmp(a.intent.TotalCost) < 0 {
		if err := a.approve(ctx); err != nil {
			return err
		}
	}
	req, err := a.simulate(ctx)
	if err != nil {
		return err
	}
	hash, err := a.submit(ctx, req)
	if err != nil {
		return err
	}
	return a.confirm(ctx, hash)
}

// enter moves to state unless the attempt was abandoned. The step starts without a transaction.
func (a *Attempt) enter(ctx context.Context, state State, format string, args ...any) error {
	if err := a.cancelled(ctx); err != nil {
		return err
	}
	a.transition(ctx, Status{
		State:   state,
		Message: fmt.Sprintf(format, args...),
	})
	return nil
}

func (a *Attempt) cancelled(ctx context.Context) error {
	if a.accepted || ctx.Err() == nil {
		return nil
	}
	return &failure{reason: ReasonCancelled, message: "Purchase cancelled", cause: ctx.Err()}
}

// remote converts a collaborator error, reporting it as a cancellation if the caller gave up.
func (a *Attempt) remote(ctx context.Context, err error) error {
	if cancelErr := a.cancelled(ctx); cancelErr != nil {
		return cancelErr
	}
	return remoteFailure(err)
}

// opContext detaches ctx from the caller's cancellation once a transaction was accepted.
func (a *Attempt) opContext(ctx context.Context) context.Context {
	if a.accepted {
		return context.WithoutCancel(ctx)
	}
	return ctx
}

func (a *Attempt) validate(ctx context.Context) error {
	if err := a.enter(ctx, StateValidating, "Validating purchase"); err != nil {
		return err
	}

	quantity, ok := parseQuantity(a.req.Quantity)
	if !ok {
		return newFailure(ReasonInvalidQuantity, "Quantity must be a positive whole number, got %q", a.req.Quantity)
	}
	if !decimals.FitsUint256(quantity) {
		return newFailure(ReasonInvalidQuantity, "Quantity %s is too large", quantity)
	}

	buyer, ok := a.o.wallet.Account()
	if !ok {
		return newFailure(ReasonWalletNotConnected, "Connect a wallet to buy tickets")
	}

	a.intent = Intent{
		SaleContract:   a.req.SaleContract,
		TicketContract: a.req.TicketContract,
		Buyer:          buyer,
		Quantity:       quantity,
	}
	return nil
}

func (a *Attempt) checkAvailability(ctx context.Context) error {
	if err := a.enter(ctx, StateCheckingAvailability, "Checking ticket availability"); err != nil {
		return err
	}

	results, err := a.o.reader.ReadBatch(a.opContext(ctx), []chain.Call{
		{To: a.intent.SaleContract, ABI: contracts.SaleABI, Method: contracts.MethodSaleStart},
		{To: a.intent.SaleContract, ABI: contracts.SaleABI, Method: contracts.MethodSaleEnd},
		{To: a.intent.SaleContract, ABI: contracts.SaleABI, Method: contracts.MethodTicketMaxSupply},
		{To: a.intent.TicketContract, ABI: contracts.TicketABI, Method: contracts.MethodTotalSupply},
	})
	if err != nil {
		return a.remote(ctx, errors.Wrap(err, "can't read sale availability"))
	}
	values, err := bigInts(results)
	if err != nil {
		return remoteFailure(err)
	}
	start, end, maxSupply, minted := values[0], values[1], values[2], values[3]

	remaining, err := entity.Remaining(maxSupply, minted)
	if err != nil {
		return remoteFailure(err)
	}
	window := entity.NewSaleWindow(start, end)

	switch entity.StatusAt(window, remaining, a.o.now()) {
	case entity.SaleStatusSoldOut:
		return newFailure(ReasonSoldOut, "This event is sold out")
	case entity.SaleStatusUpcoming:
		return newFailure(ReasonNotStarted, "Ticket sales start at %s", window.Start.UTC().Format(time.RFC3339))
	case entity.SaleStatusEnded:
		return newFailure(ReasonEnded, "Ticket sales ended at %s", window.End.UTC().Format(time.RFC3339))
	}
	if a.intent.Quantity.Cmp(remaining) > 0 {
		return newFailure(ReasonExceedsRemaining, "Only %s tickets remaining, requested %s", remaining, a.intent.Quantity)
	}
	return nil
}

func (a *Attempt) checkBalance(ctx context.Context) error {
	if err := a.enter(ctx, StateCheckingBalance, "Checking WETH balance"); err != nil {
		return err
	}

	results, err := a.o.reader.ReadBatch(a.opContext(ctx), []chain.Call{
		{To: a.intent.SaleContract, ABI: contracts.SaleABI, Method: contracts.MethodTicketPriceWei},
		{To: a.intent.SaleContract, ABI: contracts.SaleABI, Method: contracts.MethodWETH},
	})
	if err != nil {
		return a.remote(ctx, errors.Wrap(err, "can't read ticket price"))
	}
	price, err := result[*big.Int](results, 0)
	if err != nil {
		return remoteFailure(err)
	}
	token, err := result[common.Address](results, 1)
	if err != nil {
		return remoteFailure(err)
	}

	a.intent.UnitPrice = price
	a.intent.TotalCost = new(big.Int).Mul(a.intent.Quantity, price)
	a.intent.PaymentToken = token
	if !decimals.FitsUint256(a.intent.TotalCost) {
		return newFailure(ReasonInvalidQuantity, "Quantity %s is too large", a.intent.Quantity)
	}

	// independent reads, no ordering between them
	eg, ectx := errgroup.WithContext(a.opContext(ctx))
	eg.Go(func() error {
		balance, err := a.balanceOf(ectx)
		a.balance = balance
		return err
	})
	eg.Go(func() error {
		allowance, err := a.readBigInt(ectx, chain.Call{
			To:     token,
			ABI:    contracts.WETHABI,
			Method: contracts.MethodAllowance,
			Args:   []any{a.intent.Buyer, a.intent.SaleContract},
		})
		a.allowance = allowance
		return errors.Wrap(err, "can't read allowance")
	})
	if err := eg.Wait(); err != nil {
		return a.remote(ctx, err)
	}
	logger.DebugContext(ctx, "Read buyer funds",
		slogx.BigInt("total_cost", a.intent.TotalCost),
		slogx.BigInt("balance", a.balance),
		slogx.BigInt("allowance", a.allowance),
	)

	if a.balance.Cmp(a.intent.TotalCost) < 0 && !a.o.config.WrapEnabled {
		return newFailure(ReasonInsufficientBalance, "Insufficient WETH balance: need %s, have %s",
			decimals.FormatEther(a.intent.TotalCost), decimals.FormatEther(a.balance))
	}
	return nil
}

func (a *Attempt) wrap(ctx context.Context) error {
	shortfall := new(big.Int).Sub(a.intent.TotalCost, a.balance)
	if err := a.enter(ctx, StateWrapping, "Wrapping %s ETH into WETH", decimals.FormatEther(shortfall)); err != nil {
		return err
	}

	hash, err := a.send(ctx, chain.Call{
		To:     a.intent.PaymentToken,
		ABI:    contracts.WETHABI,
		Method: contracts.MethodDeposit,
		Value:  shortfall,
	})
	if err != nil {
		return err
	}
	a.txs.Wrap = &hash
	if _, err := a.wait(ctx, hash); err != nil {
		return err
	}

	balance, err := a.balanceOf(a.opContext(ctx))
	if err != nil {
		return a.remote(ctx, err)
	}
	a.balance = balance
	if balance.Cmp(a.intent.TotalCost) < 0 {
		return newFailure(ReasonInsufficientBalanceAfterWrap, "Insufficient WETH balance after wrapping: need %s, have %s",
			decimals.FormatEther(a.intent.TotalCost), decimals.FormatEther(balance))
	}
	return nil
}

func (a *Attempt) approve(ctx context.Context) error {
	if err := a.enter(ctx, StateApproving, "Approving %s WETH for the sale", decimals.FormatEther(a.intent.TotalCost)); err != nil {
		return err
	}

	hash, err := a.send(ctx, chain.Call{
		To:     a.intent.PaymentToken,
		ABI:    contracts.WETHABI,
		Method: contracts.MethodApprove,
		Args:   []any{a.intent.SaleContract, a.intent.TotalCost},
	})
	if err != nil {
		return err
	}
	a.txs.Approve = &hash
	_, err = a.wait(ctx, hash)
	return err
}

func (a *Attempt) simulate(ctx context.Context) (*chain.Request, error) {
	if err := a.enter(ctx, StateSimulating, "Simulating purchase of %s tickets", a.intent.Quantity); err != nil {
		return nil, err
	}

	req, err := a.o.transactor.Simulate(a.opContext(ctx), a.buyCall(), a.intent.Buyer)
	if err != nil {
		return nil, a.remote(ctx, err)
	}
	return req, nil
}

func (a *Attempt) submit(ctx context.Context, req *chain.Request) (common.Hash, error) {
	if err := a.enter(ctx, StateSubmitting, "Submitting purchase"); err != nil {
		return common.Hash{}, err
	}

	hash, err := a.o.transactor.Submit(context.WithoutCancel(ctx), req)
	if err != nil {
		return common.Hash{}, remoteFailure(err)
	}
	a.accepted = true
	a.txs.Buy = &hash
	return hash, nil
}

func (a *Attempt) confirm(ctx context.Context, hash common.Hash) error {
	a.transition(ctx, Status{
		State:   StateConfirming,
		Message: "Waiting for transaction " + hash.Hex() + " to be included",
		TxHash:  hash,
	})

	receipt, err := a.wait(ctx, hash)
	if err != nil {
		return err
	}
	a.receipt = receipt
	a.transition(ctx, Status{
		State:   StateComplete,
		Message: fmt.Sprintf("Purchased %s tickets", a.intent.Quantity),
		TxHash:  hash,
	})
	return nil
}

func (a *Attempt) buyCall() chain.Call {
	return chain.Call{
		To:     a.intent.SaleContract,
		ABI:    contracts.SaleABI,
		Method: contracts.MethodBuy,
		Args:   []any{a.intent.Quantity, a.intent.UnitPrice},
	}
}

// send simulates and submits a remediation transaction (wrap or approve).
func (a *Attempt) send(ctx context.Context, call chain.Call) (common.Hash, error) {
	req, err := a.o.transactor.Simulate(a.opContext(ctx), call, a.intent.Buyer)
	if err != nil {
		return common.Hash{}, a.remote(ctx, err)
	}
	if err := a.cancelled(ctx); err != nil {
		return common.Hash{}, err
	}
	hash, err := a.o.transactor.Submit(context.WithoutCancel(ctx), req)
	if err != nil {
		return common.Hash{}, remoteFailure(err)
	}
	a.accepted = true

	status := a.Status()
	status.TxHash = hash
	a.transition(ctx, status)
	return hash, nil
}

// wait blocks until hash is included, bounded by the confirmation timeout.
func (a *Attempt) wait(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	wctx := context.WithoutCancel(ctx)
	if timeout := a.o.config.ConfirmationTimeout; timeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(wctx, timeout)
		defer cancel()
	}

	receipt, err := a.o.transactor.WaitForInclusion(wctx, hash)
	if err != nil {
		if errors.Is(err, errs.Timeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &pending{hash: hash}
		}
		return nil, remoteFailure(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, newFailure(ReasonRejected, "Transaction %s reverted on-chain", hash.Hex())
	}
	return receipt, nil
}

func (a *Attempt) balanceOf(ctx context.Context) (*big.Int, error) {
	balance, err := a.readBigInt(ctx, chain.Call{
		To:     a.intent.PaymentToken,
		ABI:    contracts.WETHABI,
		Method: contracts.MethodBalanceOf,
		Args:   []any{a.intent.Buyer},
	})
	return balance, errors.Wrap(err, "can't read balance")
}

func (a *Attempt) readBigInt(ctx context.Context, call chain.Call) (*big.Int, error) {
	values, err := a.o.reader.Read(ctx, call)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return result[*big.Int]([][]any{values}, 0)
}

func result[T any](results [][]any, i int) (T, error) {
	var zero T
	if i >= len(results) || len(results[i]) == 0 {
		return zero, errors.Wrapf(errs.Inconsistent, "missing result %d", i)
	}
	value, ok := results[i][0].(T)
	if !ok {
		return zero, errors.Wrapf(errs.Inconsistent, "unexpected result type %T at %d", results[i][0], i)
	}
	return value, nil
}

func bigInts(results [][]any) ([]*big.Int, error) {
	values := make([]*big.Int, 0, len(results))
	for i := range results {
		value, err := result[*big.Int](results, i)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}
