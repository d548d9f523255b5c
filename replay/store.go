package replay

import (
	"context"
	"errors"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"
)

// ErrNotFound is returned when a round is not in the store.
var ErrNotFound = errors.New("replay: round not found")

// Store is the interface to the backend recording store.
type Store interface {
	// CreateRound registers a new round header. An empty ID is filled in.
	CreateRound(ctx context.Context, r *Round) error
	// SetRoundStatus marks a round, e.g. complete when its run ends.
	SetRoundStatus(ctx context.Context, id string, status Status) error
	// GetRound fetches a round header.
	GetRound(ctx context.Context, id string) (*Round, error)
	// ListRounds returns all known round headers.
	ListRounds(ctx context.Context) ([]*Round, error)
	// PushFrame appends one tick's events to a round.
	PushFrame(ctx context.Context, id string, f *Frame) error
	// ListFrames pages through a round's frames. A negative offset counts
	// from the end.
	ListFrames(ctx context.Context, id string, limit, offset int) ([]*Frame, error)
}

// InMemStore returns an in-memory Store, the default for live serving where
// replays only need to outlive their websocket watchers.
func InMemStore() Store {
	return &inmem{
		rounds: map[string]*Round{},
		frames: map[string][]*Frame{},
	}
}

type inmem struct {
	rounds map[string]*Round
	frames map[string][]*Frame
	lock   sync.Mutex
}

func (in *inmem) CreateRound(ctx context.Context, r *Round) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewV4().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	stored := *r
	in.rounds[r.ID] = &stored
	return nil
}

func (in *inmem) SetRoundStatus(ctx context.Context, id string, status Status) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	r, ok := in.rounds[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	return nil
}

func (in *inmem) GetRound(ctx context.Context, id string) (*Round, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	r, ok := in.rounds[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *r
	return &out, nil
}

func (in *inmem) ListRounds(ctx context.Context) ([]*Round, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	out := make([]*Round, 0, len(in.rounds))
	for _, r := range in.rounds {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (in *inmem) PushFrame(ctx context.Context, id string, f *Frame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.rounds[id]; !ok {
		return ErrNotFound
	}
	in.frames[id] = append(in.frames[id], f)
	return nil
}

func (in *inmem) ListFrames(ctx context.Context, id string, limit, offset int) ([]*Frame, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.rounds[id]; !ok {
		return nil, ErrNotFound
	}
	return PageFrames(in.frames[id], limit, offset), nil
}

// PageFrames applies limit/offset paging; a negative offset counts back
// from the newest frame. Backends share it so paging semantics never drift.
func PageFrames(frames []*Frame, limit, offset int) []*Frame {
	n := len(frames)
	if offset < 0 {
		offset = n + offset
		if offset < 0 {
			offset = 0
		}
	}
	if offset >= n || limit <= 0 {
		return nil
	}
	end := offset + limit
	if end > n {
		end = n
	}
	out := make([]*Frame, end-offset)
	copy(out, frames[offset:end])
	return out
}
