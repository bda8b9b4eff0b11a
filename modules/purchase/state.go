package purchase

// State is a step of a purchase attempt.
type State string

const (
	StateIdle                 State = "idle"
	StateValidating           State = "validating"
	StateCheckingAvailability State = "checking_availability"
	StateCheckingBalance      State = "checking_balance"
	StateWrapping             State = "wrapping"
	StateApproving            State = "approving"
	StateSimulating           State = "simulating"
	StateSubmitting           State = "submitting"
	StateConfirming           State = "confirming"
	StateComplete             State = "complete"
	StateFailed               State = "failed"

	// StatePending ends an attempt whose transaction wasn't included within the confirmation timeout.
	// The transaction may still be included later.
	StatePending State = "pending"
)

func (s State) IsTerminal() bool {
	switch s {
	case StateComplete, StateFailed, StatePending:
		return true
	}
	return false
}

// abandonable reports whether an attempt in this state may still be abandoned, given that none
// of its transactions was accepted yet.
func (s State) abandonable() bool {
	switch s {
	case StateSubmitting, StateConfirming:
		return false
	}
	return !s.IsTerminal()
}

func (s State) String() string {
	return string(s)
}

// Reason tells why an attempt failed. Every reason is distinct so that users can tell them apart.
type Reason string

const (
	ReasonInvalidQuantity              Reason = "invalid_quantity"
	ReasonWalletNotConnected           Reason = "wallet_not_connected"
	ReasonSoldOut                      Reason = "sold_out"
	ReasonNotStarted                   Reason = "not_started"
	ReasonEnded                        Reason = "ended"
	ReasonExceedsRemaining             Reason = "exceeds_remaining"
	ReasonInsufficientBalance          Reason = "insufficient_balance"
	ReasonInsufficientBalanceAfterWrap Reason = "insufficient_balance_after_wrap"
	ReasonRejected                     Reason = "rejected"
	ReasonTransport                    Reason = "transport"
	ReasonUnexpected                   Reason = "unexpected"
	ReasonCancelled                    Reason = "cancelled"
	ReasonInconsistent                 Reason = "inconsistent"
)

func (r Reason) String() string {
	return string(r)
}
