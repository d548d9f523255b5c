package commands

import (
	"fmt"
	"math/rand"

	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"

	"github.com/hoangpq/snake-engine/grid"
	"github.com/hoangpq/snake-engine/world"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	snakeColor   = termbox.ColorGreen
	wallColor    = termbox.ColorWhite
)

// canvas paints the event stream onto the terminal. It never inspects game
// state: every cell it touches arrives as an event, so a full repaint only
// happens on SetSize.
type canvas struct {
	left, top     int
	width, height int
	foods         map[grid.Coordinate]rune
}

func newCanvas() *canvas {
	return &canvas{left: 10, top: 3, foods: map[grid.Coordinate]rune{}}
}

// apply paints a single event. The driver flushes once per tick.
func (cv *canvas) apply(u world.Update) error {
	switch v := u.(type) {
	case world.SetSize:
		cv.width = int(v.Width)
		cv.height = int(v.Height)
		if err := termbox.Clear(defaultColor, defaultColor); err != nil {
			return err
		}
		cv.drawBorder()
		cv.title("snake")
	case world.SetBlock:
		cv.drawBlock(v.At, v.Block)
	case world.Clear:
		cv.clearCell(v.At)
	case world.Banner:
		cv.banner(v.Text)
	}
	return nil
}

func (cv *canvas) drawBlock(at grid.Coordinate, b grid.Block) {
	x, y := cv.cell(at)
	switch b.Kind {
	case grid.SnakeSegment:
		termbox.SetCell(x, y, ' ', snakeColor, snakeColor)
	case grid.Food:
		termbox.SetCell(x, y, cv.foodRune(at), defaultColor, bgColor)
	case grid.Wall:
		termbox.SetCell(x, y, ' ', wallColor, wallColor)
	default:
		cv.clearCell(at)
	}
}

func (cv *canvas) clearCell(at grid.Coordinate) {
	x, y := cv.cell(at)
	delete(cv.foods, at)
	termbox.SetCell(x, y, ' ', defaultColor, bgColor)
}

func (cv *canvas) cell(at grid.Coordinate) (x, y int) {
	return cv.left + int(at.X), cv.top + int(at.Y) + 1
}

func (cv *canvas) title(text string) {
	tbprint(cv.left, cv.top-1, defaultColor, defaultColor, text)
}

func (cv *canvas) banner(text string) {
	x := cv.left + (cv.width-len(text))/2
	if x < 0 {
		x = 0
	}
	tbprint(x, cv.top+cv.height/2+1, termbox.ColorRed, bgColor, text)
}

func (cv *canvas) drawBorder() {
	var (
		top    = cv.top
		bottom = cv.top + cv.height + 1
		right  = cv.left + cv.width
	)
	for y := top + 1; y < bottom; y++ {
		termbox.SetCell(cv.left-1, y, '│', defaultColor, bgColor)
		termbox.SetCell(right, y, '│', defaultColor, bgColor)
	}
	fill(cv.left, top, cv.width, 1, termbox.Cell{Ch: '─'})
	fill(cv.left, bottom, cv.width, 1, termbox.Cell{Ch: '─'})
	termbox.SetCell(cv.left-1, top, '┌', defaultColor, bgColor)
	termbox.SetCell(cv.left-1, bottom, '└', defaultColor, bgColor)
	termbox.SetCell(right, top, '┐', defaultColor, bgColor)
	termbox.SetCell(right, bottom, '┘', defaultColor, bgColor)
}

func (cv *canvas) foodRune(at grid.Coordinate) rune {
	r, ok := cv.foods[at]
	if !ok {
		r = randomFoodEmoji()
		cv.foods[at] = r
	}
	return r
}

func randomFoodEmoji() rune {
	f := []rune{
		'🍒',
		'🍍',
		'🍑',
		'🍇',
		'🍏',
		'🍌',
		'🍫',
		'🍭',
		'🍕',
		'🍩',
		'🍗',
		'🍖',
		'🍬',
		'🍤',
		'🍪',
	}
	return f[rand.Intn(len(f))]
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}

func turnTitle(turn int) string {
	return fmt.Sprintf("snake - turn %d", turn)
}
