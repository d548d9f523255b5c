package server

import (
	"sync"

	"github.com/hoangpq/snake-engine/replay"
)

// hub fans frames out to the watchers of one round. Slow watchers have
// their buffer drained oldest-first rather than blocking the tick loop.
type hub struct {
	mu     sync.Mutex
	subs   map[chan *replay.Frame]struct{}
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[chan *replay.Frame]struct{})}
}

// subscribe returns a channel of live frames. The channel is closed when
// the round ends or the watcher unsubscribes.
func (h *hub) subscribe() chan *replay.Frame {
	ch := make(chan *replay.Frame, 64)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	return ch
}

func (h *hub) unsubscribe(ch chan *replay.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *hub) broadcast(f *replay.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- f:
		default:
			// full buffer: make room by dropping the oldest frame
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- f:
			default:
			}
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
