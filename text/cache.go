package text

import "github.com/gogpu/retrodesk/internal/lru"

// DefaultCacheSize is the number of layouts a Layouter keeps.
const DefaultCacheSize = 64

type layoutKey struct {
	text  string
	style Style
}

// Layouter memoizes Layout results for one font. Screen text rarely
// changes while its position moves every frame, so shaping once per
// distinct string and style is enough.
//
// Layouter is safe for concurrent use.
type Layouter struct {
	font  *Font
	cache *lru.Cache[layoutKey, Block]
}

// NewLayouter returns a Layouter keeping up to size layouts.
// A size below one uses DefaultCacheSize.
func NewLayouter(f *Font, size int) *Layouter {
	if size < 1 {
		size = DefaultCacheSize
	}
	return &Layouter{font: f, cache: lru.New[layoutKey, Block](size, nil)}
}

// Font returns the font the layouter shapes with.
func (l *Layouter) Font() *Font {
	return l.font
}

// Layout returns the cached layout of s, shaping it on a miss.
func (l *Layouter) Layout(s string, st Style) Block {
	return l.cache.GetOrCreate(layoutKey{text: s, style: st}, func() Block {
		return l.font.Layout(s, st)
	})
}

// Stats reports cache hits and misses.
func (l *Layouter) Stats() lru.Stats {
	return l.cache.Stats()
}
