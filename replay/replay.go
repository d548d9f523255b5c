// Package replay records rounds as their diff-only update streams, exactly
// what a renderer consumes, so any stored round can be played back without
// re-simulating it.
package replay

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/hoangpq/snake-engine/grid"
	"github.com/hoangpq/snake-engine/world"
)

// Status tracks a round's lifecycle in the store.
type Status string

const (
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
)

// Round is the header of a recorded run.
type Round struct {
	ID        string    `json:"id"`
	Width     grid.Nat  `json:"width"`
	Height    grid.Nat  `json:"height"`
	Seed      int64     `json:"seed"`
	Wrap      bool      `json:"wrap"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Frame is one tick's worth of update events. Frame zero holds the
// initialize sequence, so replaying from frame zero rebuilds the scene from
// a blank canvas.
type Frame struct {
	Turn    int
	Updates []world.Update
}

// wireUpdate is the JSON envelope for the world's update variants; it is
// also what the websocket transport sends to browser renderers.
type wireUpdate struct {
	Kind   string           `json:"kind"`
	At     *grid.Coordinate `json:"at,omitempty"`
	Block  *grid.Block      `json:"block,omitempty"`
	Prev   *grid.Block      `json:"prev,omitempty"`
	Width  grid.Nat         `json:"width,omitempty"`
	Height grid.Nat         `json:"height,omitempty"`
	Text   string           `json:"text,omitempty"`
}

const (
	kindSetBlock = "set"
	kindClear    = "clear"
	kindSetSize  = "size"
	kindBanner   = "banner"
)

func encodeUpdate(u world.Update) (wireUpdate, error) {
	switch v := u.(type) {
	case world.SetSize:
		return wireUpdate{Kind: kindSetSize, Width: v.Width, Height: v.Height}, nil
	case world.SetBlock:
		at, block := v.At, v.Block
		return wireUpdate{Kind: kindSetBlock, At: &at, Block: &block}, nil
	case world.Clear:
		at, prev := v.At, v.Prev
		return wireUpdate{Kind: kindClear, At: &at, Prev: &prev}, nil
	case world.Banner:
		return wireUpdate{Kind: kindBanner, Text: v.Text}, nil
	default:
		return wireUpdate{}, errors.Errorf("replay: unknown update %T", u)
	}
}

func (w wireUpdate) decode() (world.Update, error) {
	switch w.Kind {
	case kindSetSize:
		return world.SetSize{Width: w.Width, Height: w.Height}, nil
	case kindSetBlock:
		if w.At == nil || w.Block == nil {
			return nil, errors.New("replay: set event missing coordinates")
		}
		return world.SetBlock{Block: *w.Block, At: *w.At}, nil
	case kindClear:
		if w.At == nil || w.Prev == nil {
			return nil, errors.New("replay: clear event missing coordinates")
		}
		return world.Clear{Prev: *w.Prev, At: *w.At}, nil
	case kindBanner:
		return world.Banner{Text: w.Text}, nil
	default:
		return nil, errors.Errorf("replay: unknown update kind %q", w.Kind)
	}
}

type wireFrame struct {
	Turn    int          `json:"turn"`
	Updates []wireUpdate `json:"updates"`
}

// MarshalJSON wraps each update in its wire envelope.
func (f Frame) MarshalJSON() ([]byte, error) {
	wf := wireFrame{Turn: f.Turn, Updates: make([]wireUpdate, 0, len(f.Updates))}
	for _, u := range f.Updates {
		wu, err := encodeUpdate(u)
		if err != nil {
			return nil, err
		}
		wf.Updates = append(wf.Updates, wu)
	}
	return json.Marshal(wf)
}

// UnmarshalJSON inverts MarshalJSON.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var wf wireFrame
	if err := json.Unmarshal(data, &wf); err != nil {
		return errors.Wrap(err, "replay: bad frame")
	}
	f.Turn = wf.Turn
	f.Updates = f.Updates[:0]
	for _, wu := range wf.Updates {
		u, err := wu.decode()
		if err != nil {
			return err
		}
		f.Updates = append(f.Updates, u)
	}
	return nil
}

// FrameUpdates flattens stored frames into the per-tick event slices the
// replay machine consumes.
func FrameUpdates(frames []*Frame) [][]world.Update {
	out := make([][]world.Update, 0, len(frames))
	for _, f := range frames {
		out = append(out, f.Updates)
	}
	return out
}
