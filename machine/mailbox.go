package machine

import "sync"

// Mailbox is the single-slot command buffer between the input producer and
// the tick consumer. The producer may post faster than the driver drains;
// the driver always sees the most recent command. Take hands out a copy, so
// no aliasing survives the exchange even when producer and consumer share a
// goroutine.
type Mailbox[C any] struct {
	mu  sync.Mutex
	val C
	set bool
}

// Put stores cmd, replacing any undelivered one.
func (m *Mailbox[C]) Put(cmd C) {
	m.mu.Lock()
	m.val = cmd
	m.set = true
	m.mu.Unlock()
}

// Take removes and returns the buffered command, or nil when there is none.
func (m *Mailbox[C]) Take() *C {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil
	}
	out := m.val
	m.set = false
	return &out
}
