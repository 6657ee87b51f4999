package preview

import (
	"context"
	"sync"
)

// Channel is an unbounded FIFO of messages. Push never blocks so the host
// can post updates from its UI loop; the consumer either polls with TryPop
// or blocks in Pop.
type Channel struct {
	mu      sync.Mutex
	queue   []Message
	waiting chan struct{} // Signalled (non-blocking) on every push
}

// NewChannel creates an empty channel
func NewChannel() *Channel {
	return &Channel{
		waiting: make(chan struct{}, 1),
	}
}

// Push appends a message
func (c *Channel) Push(msg Message) {
	c.mu.Lock()
	c.queue = append(c.queue, msg)
	c.mu.Unlock()

	select {
	case c.waiting <- struct{}{}:
	default:
		// A wakeup is already pending
	}
}

// TryPop removes the oldest message without blocking
func (c *Channel) TryPop() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queue) == 0 {
		return nil, false
	}
	msg := c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	return msg, true
}

// Pop removes the oldest message, blocking until one arrives or ctx is done
func (c *Channel) Pop(ctx context.Context) (Message, error) {
	for {
		if msg, ok := c.TryPop(); ok {
			return msg, nil
		}

		select {
		case <-c.waiting:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Len returns the number of queued messages
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Pipe holds the two one-directional channels shared by a host and its worker
type Pipe struct {
	ToWorker *Channel
	ToHost   *Channel
}

// NewPipe creates a pipe with empty channels
func NewPipe() *Pipe {
	return &Pipe{
		ToWorker: NewChannel(),
		ToHost:   NewChannel(),
	}
}
