package purchase

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/core/chain/mocks"
	"github.com/gaze-network/ticket-storefront/core/contracts"
	"github.com/gaze-network/ticket-storefront/modules/purchase/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testNow    = time.Unix(1_700_000_000, 0)
	saleAddr   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	ticketAddr = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	wethAddr   = common.HexToAddress("0x00000000000000000000000000000000000000a3")
	buyerAddr  = common.HexToAddress("0x00000000000000000000000000000000000000b1")
)

// ledger is an in-memory sale, ticket and payment token.
type ledger struct {
	mu sync.Mutex

	start, end         int64
	rawEnd             *big.Int // saleEnd beyond int64 when set
	maxSupply, minted  int64
	price              int64
	balance, allowance *big.Int

	// credit is the amount of WETH minted for a deposit of value. Defaults to value.
	credit func(value *big.Int) *big.Int
	// hang makes WaitForInclusion block until its context is done.
	hang bool

	submitted []chain.Call
}

func newLedger() *ledger {
	return &ledger{
		start:     testNow.Add(-time.Hour).Unix(),
		end:       testNow.Add(time.Hour).Unix(),
		maxSupply: 100,
		minted:    37,
		price:     1000,
		balance:   big.NewInt(1_000_000),
		allowance: big.NewInt(1_000_000),
	}
}

func (l *ledger) Read(_ context.Context, call chain.Call) ([]any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch call.Method {
	case contracts.MethodSaleStart:
		return []any{big.NewInt(l.start)}, nil
	case contracts.MethodSaleEnd:
		if l.rawEnd != nil {
			return []any{new(big.Int).Set(l.rawEnd)}, nil
		}
		return []any{big.NewInt(l.end)}, nil
	case contracts.MethodTicketMaxSupply:
		return []any{big.NewInt(l.maxSupply)}, nil
	case contracts.MethodTotalSupply:
		return []any{big.NewInt(l.minted)}, nil
	case contracts.MethodTicketPriceWei:
		return []any{big.NewInt(l.price)}, nil
	case contracts.MethodWETH:
		return []any{wethAddr}, nil
	case contracts.MethodBalanceOf:
		return []any{new(big.Int).Set(l.balance)}, nil
	case contracts.MethodAllowance:
		return []any{new(big.Int).Set(l.allowance)}, nil
	}
	return nil, errors.Newf("unexpected read %s", call.Method)
}

func (l *ledger) ReadBatch(ctx context.Context, calls []chain.Call) ([][]any, error) {
	results := make([][]any, 0, len(calls))
	for _, call := range calls {
		values, err := l.Read(ctx, call)
		if err != nil {
			return nil, err
		}
		results = append(results, values)
	}
	return results, nil
}

func (l *ledger) Simulate(_ context.Context, call chain.Call, from common.Address) (*chain.Request, error) {
	return &chain.Request{Call: call, From: from}, nil
}

func (l *ledger) Submit(_ context.Context, req *chain.Request) (common.Hash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch req.Method {
	case contracts.MethodDeposit:
		credit := req.Value
		if l.credit != nil {
			credit = l.credit(req.Value)
		}
		l.balance = new(big.Int).Add(l.balance, credit)
	case contracts.MethodApprove:
		l.allowance = new(big.Int).Set(req.Args[1].(*big.Int))
	case contracts.MethodBuy:
		l.minted += req.Args[0].(*big.Int).Int64()
	}
	l.submitted = append(l.submitted, req.Call)
	return common.BigToHash(big.NewInt(int64(len(l.submitted)))), nil
}

func (l *ledger) WaitForInclusion(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if l.hang {
		<-ctx.Done()
		return nil, errors.Wrapf(errs.Timeout, "transaction %s not included yet", hash)
	}
	return &types.Receipt{TxHash: hash, Status: types.ReceiptStatusSuccessful}, nil
}

func (l *ledger) methods() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	methods := make([]string, 0, len(l.submitted))
	for _, call := range l.submitted {
		methods = append(methods, call.Method)
	}
	return methods
}

type recorder struct {
	mu       sync.Mutex
	statuses []Status
}

func (r *recorder) observe(status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

// states returns the observed states with consecutive duplicates collapsed.
func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	var states []State
	for _, status := range r.statuses {
		if len(states) > 0 && states[len(states)-1] == status.State {
			continue
		}
		states = append(states, status.State)
	}
	return states
}

func newOrchestrator(reader chain.Reader, transactor chain.Transactor, wallet chain.Wallet, conf config.Config) *Orchestrator {
	o := New(reader, transactor, wallet, conf)
	o.now = func() time.Time { return testNow }
	return o
}

var (
	connected = chain.StaticWallet{Address: buyerAddr, Connected: true}
	testConf  = config.Config{ConfirmationTimeout: time.Second, WrapEnabled: true}
)

func request(quantity string) Request {
	return Request{SaleContract: saleAddr, TicketContract: ticketAddr, Quantity: quantity}
}

func TestPurchaseSkipsRemediationWhenFunded(t *testing.T) {
	l := newLedger()
	rec := &recorder{}

	result := newOrchestrator(l, l, connected, testConf).Purchase(context.Background(), request("3"), rec.observe)

	require.Equal(t, StateComplete, result.Status.State, result.Status.Message)
	assert.Equal(t, []State{
		StateValidating,
		StateCheckingAvailability,
		StateCheckingBalance,
		StateSimulating,
		StateSubmitting,
		StateConfirming,
		StateComplete,
	}, rec.states())
	assert.Equal(t, []string{contracts.MethodBuy}, l.methods())
	assert.Equal(t, int64(40), l.minted)

	assert.Equal(t, big.NewInt(3000), result.Intent.TotalCost)
	assert.Equal(t, wethAddr, result.Intent.PaymentToken)
	assert.Equal(t, buyerAddr, result.Intent.Buyer)
	assert.Nil(t, result.Transactions.Wrap)
	assert.Nil(t, result.Transactions.Approve)
	require.NotNil(t, result.Transactions.Buy)
	assert.Equal(t, *result.Transactions.Buy, result.Status.TxHash)
	require.NotNil(t, result.Receipt)
	assert.False(t, result.Status.Cancellable)
}

func TestPurchaseWrapsShortfall(t *testing.T) {
	l := newLedger()
	l.balance = big.NewInt(0)
	rec := &recorder{}

	result := newOrchestrator(l, l, connected, testConf).Purchase(context.Background(), request("1"), rec.observe)

	require.Equal(t, StateComplete, result.Status.State, result.Status.Message)
	assert.Equal(t, []State{
		StateValidating,
		StateCheckingAvailability,
		StateCheckingBalance,
		StateWrapping,
		StateSimulating,
		StateSubmitting,
		StateConfirming,
		StateComplete,
	}, rec.states())

	require.Len(t, l.submitted, 2)
	assert.Equal(t, contracts.MethodDeposit, l.submitted[0].Method)
	assert.Equal(t, wethAddr, l.submitted[0].To)
	assert.Equal(t, big.NewInt(1000), l.submitted[0].Value)
	assert.Equal(t, contracts.MethodBuy, l.submitted[1].Method)
	require.NotNil(t, result.Transactions.Wrap)
	assert.Zero(t, l.balance.Cmp(big.NewInt(1000)))
}

func TestPurchaseStatusTxHashFollowsStep(t *testing.T) {
	l := newLedger()
	l.balance = big.NewInt(0)
	rec := &recorder{}

	result := newOrchestrator(l, l, connected, testConf).Purchase(context.Background(), request("1"), rec.observe)
	require.Equal(t, StateComplete, result.Status.State, result.Status.Message)
	require.NotNil(t, result.Transactions.Wrap)
	require.NotNil(t, result.Transactions.Buy)

	var wrapSeen bool
	for _, status := range rec.statuses {
		switch status.State {
		case StateWrapping:
			if status.TxHash != (common.Hash{}) {
				wrapSeen = true
				assert.Equal(t, *result.Transactions.Wrap, status.TxHash)
			}
		case StateConfirming, StateComplete:
			assert.Equal(t, *result.Transactions.Buy, status.TxHash, status.State)
		default:
			assert.Zero(t, status.TxHash, status.State)
		}
	}
	assert.True(t, wrapSeen)
}

func TestPurchaseRevertNeverSubmits(t *testing.T) {
	l := newLedger()
	transactor := mocks.NewTransactor(t)
	transactor.EXPECT().
		Simulate(mock.Anything, mock.MatchedBy(func(call chain.Call) bool { return call.Method == contracts.MethodBuy }), buyerAddr).
		Return(nil, chain.NewRevertError("exceeds max supply"))

	result := newOrchestrator(l, transactor, connected, testConf).Purchase(context.Background(), request("2"), nil)

	assert.Equal(t, StateFailed, result.Status.State)
	assert.Equal(t, ReasonRejected, result.Status.Reason)
	assert.Equal(t, StateSimulating, result.Status.FailedAt)
	assert.Contains(t, result.Status.Message, "exceeds max supply")
	assert.False(t, result.Status.Cancellable)
	transactor.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestPurchaseApprovesExactTotal(t *testing.T) {
	l := newLedger()
	l.allowance = big.NewInt(0)
	rec := &recorder{}

	result := newOrchestrator(l, l, connected, testConf).Purchase(context.Background(), request("4"), rec.observe)

	require.Equal(t, StateComplete, result.Status.State, result.Status.Message)
	assert.Contains(t, rec.states(), StateApproving)
	assert.NotContains(t, rec.states(), StateWrapping)
	require.Len(t, l.submitted, 2)
	assert.Equal(t, contracts.MethodApprove, l.submitted[0].Method)
	assert.Equal(t, []any{saleAddr, big.NewInt(4000)}, l.submitted[0].Args)
	require.NotNil(t, result.Transactions.Approve)
}

func TestPurchaseRemainingBoundary(t *testing.T) {
	t.Run("exactly_remaining", func(t *testing.T) {
		l := newLedger()
		result := newOrchestrator(l, l, connected, testConf).Purchase(context.Background(), request("63"), nil)
		assert.Equal(t, StateComplete, result.Status.State, result.Status.Message)
	})
	t.Run("one_more_than_remaining", func(t *testing.T) {
		l := newLedger()
		result := newOrchestrator(l, l, connected, testConf).Purchase(context.Background(), request("64"), nil)
		assert.Equal(t, StateFailed, result.Status.State)
		assert.Equal(t, ReasonExceedsRemaining, result.Status.Reason)
		assert.Equal(t, StateCheckingAvailability, result.Status.FailedAt)
		assert.Empty(t, l.methods())
	})
}

func TestPurchaseInvalidQuantity(t *testing.T) {
	for _, quantity := range []string{"", " ", "0", "-1", "1.5", "1e3", "abc", "1" + strings.Repeat("0", 80)} {
		t.Run(quantity, func(t *testing.T) {
			// no expectations: any remote call fails the test
			reader := mocks.NewReader(t)
			transactor := mocks.NewTransactor(t)

			result := newOrchestrator(reader, transactor, connected, testConf).Purchase(context.Background(), request(quantity), nil)

			assert.Equal(t, StateFailed, result.Status.State)
			assert.Equal(t, ReasonInvalidQuantity, result.Status.Reason)
			assert.Equal(t, StateValidating, result.Status.FailedAt)
		})
	}
}

func TestPurchaseWithoutWallet(t *testing.T) {
	result := newOrchestrator(mocks.NewReader(t), mocks.NewTransactor(t), chain.StaticWallet{}, testConf).
		Purchase(context.Background(), request("1"), nil)

	assert.Equal(t, StateFailed, result.Status.State)
	assert.Equal(t, ReasonWalletNotConnected, result.Status.Reason)
}

func TestPurchaseSaleNotOpen(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(l *ledger)
		reason Reason
	}{
		{
			name:   "sold_out",
			modify: func(l *ledger) { l.minted = l.maxSupply },
			reason: ReasonSoldOut,
		},
		{
			name:   "not_started",
			modify: func(l *ledger) { l.start = testNow.Add(time.Minute).Unix() },
			reason: ReasonNotStarted,
		},
		{
			name:   "ended",
			modify: func(l *ledger) { l.end = testNow.Add(-time.Minute).Unix() },
			reason: ReasonEnded,
		},
		{
			name:   "inconsistent_supply",
			modify: func(l *ledger) { l.minted = l.maxSupply + 1 },
			reason: ReasonInconsistent,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := newLedger()
			tc.modify(l)

			result := newOrchestrator(l, l, connected, testConf).Purchase(context.Background(), request("1"), nil)

			assert.Equal(t, StateFailed, result.Status.State)
			assert.Equal(t, tc.reason, result.Status.Reason)
			assert.Equal(t, StateCheckingAvailability, result.Status.FailedAt)
			assert.Empty(t, l.methods())
		})
	}
}

func TestPurchaseOpenEndedSale(t *testing.T) {
	for _, exp := range []uint{63, 64, 255} {
		l := newLedger()
		l.rawEnd = new(big.Int).Lsh(big.NewInt(1), exp)

		result := newOrchestrator(l, l, connected, testConf).Purchase(context.Background(), request("2"), nil)

		assert.Equal(t, StateComplete, result.Status.State, "saleEnd 2^%d: %s", exp, result.Status.Message)
		assert.Equal(t, []string{contracts.MethodBuy}, l.methods())
	}
}

func TestPurchaseInsufficientBalance(t *testing.T) {
	t.Run("wrap_disabled", func(t *testing.T) {
		l := newLedger()
		l.balance = big.NewInt(999)
		conf := testConf
		conf.WrapEnabled = false

		result := newOrchestrator(l, l, connected, conf).Purchase(context.Background(), request("1"), nil)

		assert.Equal(t, StateFailed, result.Status.State)
		assert.Equal(t, ReasonInsufficientBalance, result.Status.Reason)
		assert.Empty(t, l.methods())
	})
	t.Run("after_wrap", func(t *testing.T) {
		l := newLedger()
		l.balance = big.NewInt(0)
		l.credit = func(value *big.Int) *big.Int { return new(big.Int).Sub(value, big.NewInt(1)) }

		result := newOrchestrator(l, l, connected, testConf).Purchase(context.Background(), request("1"), nil)

		assert.Equal(t, StateFailed, result.Status.State)
		assert.Equal(t, ReasonInsufficientBalanceAfterWrap, result.Status.Reason)
		assert.Equal(t, StateWrapping, result.Status.FailedAt)
		assert.Equal(t, []string{contracts.MethodDeposit}, l.methods())
		require.NotNil(t, result.Transactions.Wrap)
		assert.False(t, result.Status.Cancellable)
	})
}

func TestPurchaseConfirmationTimeout(t *testing.T) {
	l := newLedger()
	l.hang = true
	conf := testConf
	conf.ConfirmationTimeout = 20 * time.Millisecond

	result := newOrchestrator(l, l, connected, conf).Purchase(context.Background(), request("1"), nil)

	assert.Equal(t, StatePending, result.Status.State)
	require.NotNil(t, result.Transactions.Buy)
	assert.Equal(t, *result.Transactions.Buy, result.Status.TxHash)
	assert.Equal(t, []string{contracts.MethodBuy}, l.methods())
}

func TestPurchaseCancellation(t *testing.T) {
	t.Run("before_submission", func(t *testing.T) {
		l := newLedger()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		result := newOrchestrator(l, l, connected, testConf).Purchase(ctx, request("1"), func(status Status) {
			if status.State == StateCheckingBalance {
				cancel()
			}
		})

		assert.Equal(t, StateFailed, result.Status.State)
		assert.Equal(t, ReasonCancelled, result.Status.Reason)
		assert.Empty(t, l.methods())
	})
	t.Run("ignored_once_accepted", func(t *testing.T) {
		l := newLedger()
		l.balance = big.NewInt(0)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		result := newOrchestrator(l, l, connected, testConf).Purchase(ctx, request("1"), func(status Status) {
			if status.State == StateWrapping && status.TxHash != (common.Hash{}) {
				assert.False(t, status.Cancellable)
				cancel()
			}
		})

		assert.Equal(t, StateComplete, result.Status.State, result.Status.Message)
		assert.Equal(t, []string{contracts.MethodDeposit, contracts.MethodBuy}, l.methods())
	})
}

func TestAttemptCancellable(t *testing.T) {
	l := newLedger()
	cancellable := map[State]bool{}

	attempt := newOrchestrator(l, l, connected, testConf).Begin(request("1"), func(status Status) {
		cancellable[status.State] = status.Cancellable
	})
	assert.True(t, attempt.Cancellable())
	assert.Equal(t, StateIdle, attempt.Status().State)

	result := attempt.Run(context.Background())
	require.Equal(t, StateComplete, result.Status.State)

	assert.Equal(t, map[State]bool{
		StateValidating:           true,
		StateCheckingAvailability: true,
		StateCheckingBalance:      true,
		StateSimulating:           true,
		StateSubmitting:           false,
		StateConfirming:           false,
		StateComplete:             false,
	}, cancellable)

	// a second run returns the first result without resubmitting
	again := attempt.Run(context.Background())
	assert.Equal(t, result, again)
	assert.Equal(t, []string{contracts.MethodBuy}, l.methods())
}

func TestRemoteFailureReasons(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		reason Reason
	}{
		{name: "revert", err: chain.NewRevertError("sale closed"), reason: ReasonRejected},
		{name: "transport", err: chain.MarkTransport(errors.New("dial tcp: connection refused")), reason: ReasonTransport},
		{name: "inconsistent", err: errors.Wrap(errs.Inconsistent, "minted exceeds max"), reason: ReasonInconsistent},
		{name: "unknown", err: errors.New("boom"), reason: ReasonUnexpected},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var f *failure
			require.ErrorAs(t, remoteFailure(tc.err), &f)
			assert.Equal(t, tc.reason, f.reason)
		})
	}
}
