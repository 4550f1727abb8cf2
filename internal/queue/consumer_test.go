package queue

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer lets the consumer goroutine and the test share a log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRecord(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	Record(log, Message{
		ID:        "e1",
		Type:      TypeRegistered,
		StudentID: 7,
		At:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Body:      []byte(`{"firstName":"Ann","dob":"2001-01-15"}`),
	})
	assert.Contains(t, buf.String(), `"msg":"student event"`)
	assert.Contains(t, buf.String(), `"student_id":7`)
	assert.Contains(t, buf.String(), `"dob":"2001-01-15"`)

	buf.Reset()
	Record(log, Message{ID: "e2", Type: "student.archived"})
	assert.Contains(t, buf.String(), `"msg":"unknown event type"`)

	buf.Reset()
	Record(log, Message{ID: "e3", Type: TypeUpdated, Body: []byte(`[1,`)})
	assert.Contains(t, buf.String(), `"msg":"undecodable event body"`)
}

func TestRun_DrainsInMemoryPastCapacity(t *testing.T) {
	q := NewInMemory(4)
	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, q, slog.New(slog.NewTextHandler(&out, nil))) }()

	for i := 0; i < 40; i++ {
		require.NoError(t, q.Publish(context.Background(), Message{Type: TypeDeleted, StudentID: int64(i + 1)}))
	}
	require.Eventually(t, func() bool {
		return bytes.Count([]byte(out.String()), []byte("student event")) == 40
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
