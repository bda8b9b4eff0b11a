package evm

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
)

const revertPrefix = "execution reverted"

// rejections are node answers about the transaction itself.
var rejections = []string{
	"insufficient funds",
	"nonce too low",
	"nonce too high",
	"replacement transaction underpriced",
	"transaction underpriced",
	"already known",
	"intrinsic gas too low",
	"exceeds block gas limit",
	"gas required exceeds allowance",
	"max fee per gas less than block base fee",
	"invalid sender",
}

// wrapRPCError tags err with the remote result kind.
//
//   - reverts become chain.RevertError with the decoded reason
//   - JSON-RPC errors about the transaction itself are rejections
//   - everything else (dial, rate limits, missing headers, HTTP status) is a transport failure
func wrapRPCError(err error) error {
	if err == nil {
		return nil
	}

	if reason, ok := revertReason(err); ok {
		return chain.NewRevertError(reason)
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && isRejection(rpcErr.Error()) {
		return errors.Mark(errors.WithStack(err), errs.Rejected)
	}
	return chain.MarkTransport(errors.WithStack(err))
}

func isRejection(msg string) bool {
	msg = strings.ToLower(msg)
	for _, r := range rejections {
		if strings.Contains(msg, r) {
			return true
		}
	}
	return false
}

func revertReason(err error) (string, bool) {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if raw, ok := dataErr.ErrorData().(string); ok {
			if data, decodeErr := hexutil.Decode(raw); decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					return reason, true
				}
			}
		}
	}

	msg := err.Error()
	idx := strings.Index(msg, revertPrefix)
	if idx < 0 {
		return "", false
	}
	reason := strings.TrimSpace(strings.TrimPrefix(msg[idx+len(revertPrefix):], ":"))
	if reason == "" {
		reason = revertPrefix
	}
	return reason, true
}
