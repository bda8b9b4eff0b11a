package chain

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
)

// Kind tags the outcome of a remote call.
type Kind int

const (
	// KindOK means the call succeeded.
	KindOK Kind = iota
	// KindTransport means the remote could not be reached or timed out.
	KindTransport
	// KindRejection means the remote answered and refused the call (e.g. contract revert).
	KindRejection
	// KindUnknown is any other failure.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindTransport:
		return "transport_error"
	case KindRejection:
		return "rejection_error"
	default:
		return "unknown_error"
	}
}

// RevertError is a contract-side rejection. Reason is the decoded revert reason
// (or the node's message when the revert carries no reason string).
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("execution reverted: %s", e.Reason)
}

// Is reports RevertError as errs.Rejected.
func (e *RevertError) Is(target error) bool {
	return target == errs.Rejected
}

// NewRevertError creates a rejection error carrying the revert reason verbatim.
func NewRevertError(reason string) error {
	return errors.WithStack(&RevertError{Reason: reason})
}

// MarkTransport tags err as a transport failure.
func MarkTransport(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, errs.Transport)
}

const fallbackMessage = "remote call failed"

// Classify decodes err into the tagged remote result and a message suitable for the user.
// Rejections surface the revert reason verbatim.
func Classify(err error) (Kind, string) {
	if err == nil {
		return KindOK, ""
	}

	var revert *RevertError
	if errors.As(err, &revert) {
		return KindRejection, revert.Reason
	}
	if errors.Is(err, errs.Rejected) {
		return KindRejection, messageOf(err)
	}
	if errors.Is(err, errs.Transport) || errors.Is(err, errs.Timeout) {
		return KindTransport, messageOf(err)
	}
	return KindUnknown, messageOf(err)
}

func messageOf(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return fallbackMessage
	}
	return msg
}
