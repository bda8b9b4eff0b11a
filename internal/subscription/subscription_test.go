package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionCloseDeliversBufferedValues(t *testing.T) {
	ctx := context.Background()
	ch := make(chan int)
	sub := New(ch)

	go func() {
		for i := 0; i < 5; i++ {
			_ = sub.Send(ctx, i)
		}
		sub.Close()
	}()

	client := sub.Client()
	var got []int
	for {
		select {
		case v := <-ch:
			got = append(got, v)
			continue
		case <-client.Done():
		case <-time.After(time.Second):
			t.Fatal("subscription never finished")
		}
		break
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.True(t, client.Closed())

	// unsubscribing a finished subscription must not block
	require.NoError(t, client.UnsubscribeContext(ctx))
}

func TestSubscriptionSendError(t *testing.T) {
	ctx := context.Background()
	sub := New(make(chan int))
	expected := errors.New("window failed")
	require.NoError(t, sub.SendError(ctx, expected))

	select {
	case err := <-sub.Client().Err():
		assert.ErrorIs(t, err, expected)
	case <-time.After(time.Second):
		t.Fatal("error not delivered")
	}
	sub.Client().Unsubscribe()
	assert.ErrorIs(t, sub.Send(ctx, 1), errs.InternalError)
}

func TestUnsubscribeStopsForwarding(t *testing.T) {
	ctx := context.Background()
	ch := make(chan int)
	sub := New(ch)
	require.NoError(t, sub.Send(ctx, 1))

	// nobody reads ch, the forwarder must still exit
	client := sub.Client()
	require.NoError(t, client.UnsubscribeContext(ctx))
	assert.True(t, client.Closed())
	client.Unsubscribe()
}
