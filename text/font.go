package text

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// ErrInvalidFont is returned when font data cannot be parsed.
var ErrInvalidFont = errors.New("text: invalid font")

// Font is a parsed TrueType or OpenType font.
//
// The same data is parsed twice: once by go-text for shaping and once by
// sfnt for outlines. Glyph IDs agree between the two.
// Font is safe for concurrent use.
type Font struct {
	shape   *font.Font
	outline *opentype.Font

	// HarfbuzzShaper keeps internal buffers and is not safe for
	// concurrent use.
	shapers sync.Pool
}

// ParseFont parses TTF or OTF data.
func ParseFont(data []byte) (*Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFont, err)
	}
	outline, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFont, err)
	}
	f := &Font{shape: face.Font, outline: outline}
	f.shapers.New = func() any { return &shaping.HarfbuzzShaper{} }
	return f, nil
}

var defaultFont = sync.OnceValues(func() (*Font, error) {
	return ParseFont(goregular.TTF)
})

// DefaultFont returns the bundled Go Regular font.
func DefaultFont() (*Font, error) {
	return defaultFont()
}

// Name returns the font family name, or "" if the font has none.
func (f *Font) Name() string {
	name, err := f.outline.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return f.outline.NumGlyphs()
}
