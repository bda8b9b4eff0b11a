package purchase

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
)

// failure ends an attempt in StateFailed.
type failure struct {
	reason  Reason
	message string
	cause   error
}

func (f *failure) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.reason, f.message, f.cause)
	}
	return fmt.Sprintf("%s: %s", f.reason, f.message)
}

func (f *failure) Unwrap() error {
	return f.cause
}

func newFailure(reason Reason, format string, args ...any) error {
	return &failure{
		reason:  reason,
		message: fmt.Sprintf(format, args...),
	}
}

// remoteFailure converts a collaborator error. Revert reasons and transport messages are kept verbatim.
func remoteFailure(err error) error {
	if errors.Is(err, errs.Inconsistent) {
		return &failure{reason: ReasonInconsistent, message: err.Error(), cause: err}
	}
	kind, message := chain.Classify(err)
	reason := ReasonUnexpected
	switch kind {
	case chain.KindRejection:
		reason = ReasonRejected
	case chain.KindTransport:
		reason = ReasonTransport
	}
	return &failure{reason: reason, message: message, cause: err}
}

// pending ends an attempt in StatePending.
type pending struct {
	hash common.Hash
}

func (p *pending) Error() string {
	return fmt.Sprintf("transaction %s is still pending", p.hash.Hex())
}
