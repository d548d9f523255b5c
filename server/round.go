package server

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/hoangpq/snake-engine/config"
	"github.com/hoangpq/snake-engine/grid"
	"github.com/hoangpq/snake-engine/machine"
	"github.com/hoangpq/snake-engine/replay"
	"github.com/hoangpq/snake-engine/world"
)

// liveRound drives one world at the configured tick rate, records every
// frame to the store and fans the frames out to websocket watchers. The
// round is the single consumer of its mailbox; watchers and move requests
// are the producers.
type liveRound struct {
	id    string
	store replay.Store

	game    *machine.Game[grid.Direction, world.Update]
	mail    machine.Mailbox[grid.Direction]
	limiter *rate.Limiter

	pending []world.Update
	turn    int

	hub      *hub
	done     chan struct{}
	stopOnce sync.Once
}

func newLiveRound(store replay.Store, r *replay.Round) (*liveRound, error) {
	bound := grid.Bounding(grid.Bounded)
	if r.Wrap {
		bound = grid.Wrapping
	}
	w := world.New(world.Config{
		Width:   r.Width,
		Height:  r.Height,
		Heading: grid.East,
		Bound:   bound,
		Seed:    r.Seed,
	})

	lr := &liveRound{
		store:   store,
		limiter: rate.NewLimiter(config.TickRate, 1),
		hub:     newHub(),
		done:    make(chan struct{}),
	}
	lr.game = machine.NewGame[grid.Direction, world.Update](w, lr.collect)

	r.Status = replay.StatusRunning
	if err := store.CreateRound(context.Background(), r); err != nil {
		return nil, err
	}
	lr.id = r.ID

	// frame zero is the full starting scene, recorded before any watcher can
	// ask for it
	if err := lr.game.Start(); err != nil {
		return nil, err
	}
	if err := lr.flush(context.Background()); err != nil {
		return nil, err
	}
	return lr, nil
}

// collect is the renderer callback: it buffers this tick's events until
// flush turns them into a frame.
func (lr *liveRound) collect(u world.Update) error {
	lr.pending = append(lr.pending, u)
	return nil
}

func (lr *liveRound) flush(ctx context.Context) error {
	frame := &replay.Frame{Turn: lr.turn, Updates: lr.pending}
	lr.pending = nil
	lr.turn++

	if err := lr.store.PushFrame(ctx, lr.id, frame); err != nil {
		return err
	}
	lr.hub.broadcast(frame)
	return nil
}

// run is the tick loop. It exits when the round dies or is stopped.
func (lr *liveRound) run() {
	ctx := context.Background()
	for {
		select {
		case <-lr.done:
			lr.finish(ctx)
			return
		default:
		}

		if err := lr.limiter.Wait(ctx); err != nil {
			lr.finish(ctx)
			return
		}

		if err := lr.game.Tick(lr.mail.Take()); err != nil {
			if machine.IsGameOver(err) {
				log.WithField("round", lr.id).
					WithField("turn", lr.turn).
					Info("round over")
			} else {
				log.WithError(err).
					WithField("round", lr.id).
					Error("ending round due to fatal error")
			}
			lr.finish(ctx)
			return
		}

		if err := lr.flush(ctx); err != nil {
			log.WithError(err).
				WithField("round", lr.id).
				Error("failed to record frame")
			lr.finish(ctx)
			return
		}
	}
}

func (lr *liveRound) finish(ctx context.Context) {
	lr.game.Close()
	if err := lr.store.SetRoundStatus(ctx, lr.id, replay.StatusComplete); err != nil {
		log.WithError(err).WithField("round", lr.id).Error("failed to complete round")
	}
	lr.hub.close()
}

// stop ends the round from the outside. Callers may race; only the first
// call closes the channel.
func (lr *liveRound) stop() {
	lr.stopOnce.Do(func() { close(lr.done) })
}
