package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_PublishConsume(t *testing.T) {
	q := NewInMemory(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Publish(ctx, Message{ID: "a", Type: TypeRegistered, StudentID: 1}))
	require.NoError(t, q.Publish(ctx, Message{ID: "b", Type: TypeDeleted, StudentID: 1}))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	first := <-msgs
	second := <-msgs
	assert.Equal(t, "a", first.ID)
	assert.Equal(t, TypeDeleted, second.Type)
}

func TestInMemory_FullBufferDropsAfterWait(t *testing.T) {
	q := NewInMemory(1)
	q.wait = time.Millisecond
	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, Message{ID: "a"}))
	err := q.Publish(ctx, Message{ID: "b"})
	assert.ErrorIs(t, err, ErrFull)
}

func TestInMemory_ConsumeStopsOnCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-msgs:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(time.Second):
		t.Fatal("consume did not stop")
	}
}

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	raw, err := Encode(Message{ID: "x", Type: TypeUpdated, StudentID: 7, At: at, Body: []byte(`{"lastName":"Lee"}`)})
	require.NoError(t, err)

	msg, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(7), msg.StudentID)
	assert.True(t, at.Equal(msg.At))
	assert.JSONEq(t, `{"lastName":"Lee"}`, string(msg.Body))

	_, err = Decode("not json")
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var q Queue = Discard{}
	require.NoError(t, q.Publish(ctx, Message{ID: "a"}))
	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	cancel()
	_, ok := <-msgs
	assert.False(t, ok)
}
