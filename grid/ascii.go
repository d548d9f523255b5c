package grid

// Fixture glyphs. Body segments carry their travel direction as a lowercase
// letter; the head carries the current heading as an arrow so a parser can
// walk the body back from the head and rebuild its order.
const (
	GlyphEmpty = '.'
	GlyphFood  = '*'
	GlyphWall  = '#'
)

var bodyGlyphs = map[Direction]rune{
	North: 'n',
	South: 's',
	East:  'e',
	West:  'w',
}

var headGlyphs = map[Direction]rune{
	North: '^',
	South: 'v',
	East:  '>',
	West:  '<',
}

// BlockGlyph returns the fixture rune for a block. head selects the arrow
// form for the snake segment under the head.
func BlockGlyph(b Block, head bool) rune {
	switch b.Kind {
	case Food:
		return GlyphFood
	case Wall:
		return GlyphWall
	case SnakeSegment:
		if head {
			return headGlyphs[b.Dir]
		}
		return bodyGlyphs[b.Dir]
	default:
		return GlyphEmpty
	}
}

// ParseGlyph inverts BlockGlyph. head reports whether the rune was a
// directional head marker; ok is false for runes outside the fixture
// alphabet.
func ParseGlyph(r rune) (b Block, head bool, ok bool) {
	switch r {
	case GlyphEmpty:
		return EmptyBlock(), false, true
	case GlyphFood:
		return FoodBlock(), false, true
	case GlyphWall:
		return WallBlock(), false, true
	}
	for dir, g := range bodyGlyphs {
		if g == r {
			return SnakeBlock(dir), false, true
		}
	}
	for dir, g := range headGlyphs {
		if g == r {
			return SnakeBlock(dir), true, true
		}
	}
	return Block{}, false, false
}
