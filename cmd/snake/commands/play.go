package commands

import (
	"time"

	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hoangpq/snake-engine/config"
	"github.com/hoangpq/snake-engine/grid"
	"github.com/hoangpq/snake-engine/machine"
	"github.com/hoangpq/snake-engine/world"
)

var (
	playWidth  int
	playHeight int
	playWalls  bool
	playSeed   int64
)

func init() {
	playCmd.Flags().IntVar(&playWidth, "width", config.BoardWidth, "board width")
	playCmd.Flags().IntVar(&playHeight, "height", config.BoardHeight, "board height")
	playCmd.Flags().BoolVar(&playWalls, "walls", false, "end the round at the board edge instead of wrapping")
	playCmd.Flags().Int64Var(&playSeed, "seed", 0, "food placement seed, 0 picks one")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "play snake in the terminal",
	Run: func(*cobra.Command, []string) {
		if err := play(); err != nil {
			log.WithError(err).Fatal("round ended abnormally")
		}
	},
}

func play() error {
	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	bound := grid.Wrapping
	if playWalls {
		bound = grid.Bounded
	}

	// each life gets its own world and ramp so a restart starts from scratch
	newLife := func() machine.Stateful[grid.Direction, world.Update] {
		seed := playSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		w := world.New(world.Config{
			Width:   grid.Nat(playWidth),
			Height:  grid.Nat(playHeight),
			Heading: grid.East,
			Bound:   bound,
			Seed:    seed,
		})
		return machine.SpeedRamp[world.Update](w,
			config.StartPeriod, config.MinPeriod, config.MaxPeriod)
	}
	newDeathScreen := func() machine.Stateful[grid.Direction, world.Update] {
		return machine.Dead[grid.Direction, world.Update](
			func(grid.Direction) bool { return true },
			[]world.Update{world.Banner{Text: "game over, any arrow restarts"}},
		)
	}

	cv := newCanvas()
	game := machine.NewGame[grid.Direction, world.Update](
		machine.Alternating(newLife, newDeathScreen), cv.apply)
	defer game.Close()

	if err := game.Start(); err != nil {
		return err
	}
	if err := termbox.Flush(); err != nil {
		return err
	}

	events := setupEventQueue()
	var mail machine.Mailbox[grid.Direction]

	ticker := time.NewTicker(tickPeriod())
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if ev.Type != termbox.EventKey {
				continue
			}
			if dir, ok := keyDirection(ev); ok {
				mail.Put(dir)
				continue
			}
			if ev.Key == termbox.KeyEsc || ev.Ch == 'q' {
				return nil
			}
		case <-ticker.C:
			if err := game.Tick(mail.Take()); err != nil {
				// the death screen absorbs ordinary game overs, so anything
				// surfacing here is fatal
				return err
			}
			if err := termbox.Flush(); err != nil {
				return err
			}
		}
	}
}

func tickPeriod() time.Duration {
	return time.Duration(float64(time.Second) / float64(config.TickRate))
}

func keyDirection(ev termbox.Event) (grid.Direction, bool) {
	switch ev.Key {
	case termbox.KeyArrowUp:
		return grid.North, true
	case termbox.KeyArrowDown:
		return grid.South, true
	case termbox.KeyArrowLeft:
		return grid.West, true
	case termbox.KeyArrowRight:
		return grid.East, true
	}
	switch ev.Ch {
	case 'w':
		return grid.North, true
	case 's':
		return grid.South, true
	case 'a':
		return grid.West, true
	case 'd':
		return grid.East, true
	}
	return grid.North, false
}

func setupEventQueue() chan termbox.Event {
	events := make(chan termbox.Event, 16)
	go func() {
		for {
			events <- termbox.PollEvent()
		}
	}()
	return events
}
