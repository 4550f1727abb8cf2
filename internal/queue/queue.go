package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Event types published after successful writes.
const (
	TypeRegistered = "student.registered"
	TypeUpdated    = "student.updated"
	TypeDeleted    = "student.deleted"
)

// Message represents a change event.
type Message struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	StudentID int64           `json:"studentId"`
	At        time.Time       `json:"at"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// Publisher accepts messages.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Queue is the abstraction over different backends.
type Queue interface {
	Publisher
	Consume(ctx context.Context) (<-chan Message, error)
}

// ErrFull is returned by the in-memory queue when its buffer is exhausted.
var ErrFull = errors.New("queue full")

// DefaultPublishWait bounds how long an in-memory Publish waits for room.
const DefaultPublishWait = 50 * time.Millisecond

// InMemory is a bounded channel-backed queue consumed inside the same
// process. When the buffer is full Publish waits up to its publish wait for
// the consumer to make room, then drops the message with ErrFull.
type InMemory struct {
	ch   chan Message
	wait time.Duration
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(size int) *InMemory {
	if size <= 0 {
		size = 64
	}
	return &InMemory{ch: make(chan Message, size), wait: DefaultPublishWait}
}

// Publish enqueues a message.
func (q *InMemory) Publish(ctx context.Context, msg Message) error {
	select {
	case q.ch <- msg:
		return nil
	default:
	}
	t := time.NewTimer(q.wait)
	defer t.Stop()
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return ErrFull
	}
}

// Consume returns a channel for workers.
func (q *InMemory) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case msg := <-q.ch:
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Discard drops every message. Used when QUEUE_BACKEND=none.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(context.Context, Message) error { return nil }

// Consume returns a channel that closes with ctx.
func (Discard) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}

// Encode serializes a message for transport.
func Encode(msg Message) (string, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a transported message.
func Decode(s string) (Message, error) {
	var msg Message
	if err := json.Unmarshal([]byte(s), &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
