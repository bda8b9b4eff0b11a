package evm

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/stretchr/testify/assert"
)

type jsonError struct {
	code    int
	message string
	data    any
}

func (e *jsonError) Error() string          { return e.message }
func (e *jsonError) ErrorCode() int         { return e.code }
func (e *jsonError) ErrorData() interface{} { return e.data }

func revertData(t *testing.T, reason string) string {
	t.Helper()
	// Error(string) selector followed by the ABI-encoded reason
	strType, err := abi.NewType("string", "", nil)
	assert.NoError(t, err)
	packed, err := abi.Arguments{{Type: strType}}.Pack(reason)
	assert.NoError(t, err)
	return hexutil.Encode(append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...))
}

func TestWrapRPCError(t *testing.T) {
	t.Run("revert_with_data", func(t *testing.T) {
		err := wrapRPCError(&jsonError{code: 3, message: "execution reverted", data: revertData(t, "exceeds max supply")})
		kind, msg := chain.Classify(err)
		assert.Equal(t, chain.KindRejection, kind)
		assert.Equal(t, "exceeds max supply", msg)
	})
	t.Run("revert_in_message", func(t *testing.T) {
		err := wrapRPCError(&jsonError{code: -32000, message: "execution reverted: sale not active"})
		kind, msg := chain.Classify(err)
		assert.Equal(t, chain.KindRejection, kind)
		assert.Equal(t, "sale not active", msg)
	})
	t.Run("transaction_rejections", func(t *testing.T) {
		for _, msg := range []string{
			"insufficient funds for gas * price + value: balance 0, tx cost 1000",
			"nonce too low: next nonce 7, tx nonce 6",
			"replacement transaction underpriced",
			"already known",
		} {
			err := wrapRPCError(&jsonError{code: -32000, message: msg})
			assert.True(t, errors.Is(err, errs.Rejected), msg)
			kind, _ := chain.Classify(err)
			assert.Equal(t, chain.KindRejection, kind, msg)
		}
	})
	t.Run("node_side_errors_are_transport", func(t *testing.T) {
		for _, e := range []*jsonError{
			{code: -32005, message: "limit exceeded"},
			{code: -32005, message: "query returned more than 10000 results"},
			{code: -32000, message: "header not found"},
			{code: -32603, message: "internal error"},
			{code: 429, message: "Too Many Requests"},
		} {
			err := wrapRPCError(e)
			assert.False(t, errors.Is(err, errs.Rejected), e.message)
			kind, _ := chain.Classify(err)
			assert.Equal(t, chain.KindTransport, kind, e.message)
		}
	})
	t.Run("transport", func(t *testing.T) {
		err := wrapRPCError(errors.New("dial tcp: connection refused"))
		kind, _ := chain.Classify(err)
		assert.Equal(t, chain.KindTransport, kind)
	})
}

func TestNewKeySigner(t *testing.T) {
	signer, err := NewKeySigner("0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	assert.NoError(t, err)
	addr, ok := signer.Account()
	assert.True(t, ok)
	assert.Equal(t, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", addr.Hex())

	_, err = NewKeySigner("not-a-key")
	assert.ErrorIs(t, err, errs.InvalidArgument)

	var disconnected *KeySigner
	_, ok = disconnected.Account()
	assert.False(t, ok)
}
