package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hoangpq/snake-engine/grid"
	"github.com/hoangpq/snake-engine/machine"
	"github.com/hoangpq/snake-engine/replay"
	"github.com/hoangpq/snake-engine/world"
)

var roundID string

func init() {
	replayCmd.Flags().StringVarP(&roundID, "round-id", "r", "", "the id of the recorded round to replay")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "replay a recorded round in the terminal",
	Args: func(*cobra.Command, []string) error {
		if roundID == "" {
			return errors.New("round id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		if err := replayRound(); err != nil {
			log.WithError(err).Fatal("replay failed")
		}
	},
}

func loadRound() ([][]world.Update, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(fmt.Sprintf("%s/rounds/%s/frames", apiAddr, roundID))
	if err != nil {
		return nil, errors.Wrap(err, "fetching frames")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching frames: %s", resp.Status)
	}

	var frames []*replay.Frame
	if err := json.NewDecoder(resp.Body).Decode(&frames); err != nil {
		return nil, errors.Wrap(err, "decoding frames")
	}
	if len(frames) == 0 {
		return nil, errors.New("round has no recorded frames")
	}
	return replay.FrameUpdates(frames), nil
}

func replayRound() error {
	frames, err := loadRound()
	if err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	cv := newCanvas()
	game := machine.NewGame[grid.Direction, world.Update](
		machine.Replay[grid.Direction, world.Update](frames), cv.apply)
	defer game.Close()

	if err := game.Start(); err != nil {
		return err
	}
	if err := termbox.Flush(); err != nil {
		return err
	}

	events := setupEventQueue()
	ticker := time.NewTicker(tickPeriod())
	defer ticker.Stop()

	turn := 0
	paused := false
	for {
		select {
		case ev := <-events:
			if ev.Type != termbox.EventKey {
				continue
			}
			switch {
			case ev.Key == termbox.KeyEsc || ev.Ch == 'q':
				return nil
			case ev.Key == termbox.KeySpace:
				paused = !paused
			}
		case <-ticker.C:
			if paused {
				continue
			}
			if err := game.Tick(nil); err != nil {
				if machine.IsGameOver(err) {
					cv.banner("replay over, q quits")
					termbox.Flush()
					paused = true
					continue
				}
				return err
			}
			cv.title(turnTitle(turn))
			turn++
			if err := termbox.Flush(); err != nil {
				return err
			}
		}
	}
}
