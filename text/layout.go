package text

import (
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// shapeSize is the em size, in 26.6 units, text is shaped at before being
// scaled to the requested size.
const shapeSize = 64

// Align positions lines of different widths inside a block.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// offset returns how far a line of the given slack is moved to the right.
func (a Align) offset(slack float64) float64 {
	switch a {
	case AlignCenter:
		return slack / 2
	case AlignRight:
		return slack
	default:
		return 0
	}
}

// Style controls layout. Lengths are in scene units.
type Style struct {
	// Size is the em size.
	Size float64

	// LetterSpacing is added after every glyph, as a fraction of Size.
	LetterSpacing float64

	// MaxWidth wraps lines at word boundaries. Zero disables wrapping.
	MaxWidth float64

	// LineHeight is the baseline distance as a multiple of Size.
	// Zero uses the font's recommended line height.
	LineHeight float64

	Align Align
}

// Glyph is one positioned glyph. X is the pen position from the start of
// its line.
type Glyph struct {
	ID uint16
	X  float64
}

// Line is a run of glyphs sharing a baseline.
type Line struct {
	Glyphs []Glyph
	Width  float64
}

// Block is laid out text. Blocks are immutable once returned.
type Block struct {
	Lines []Line

	// Width is the widest line; Height spans the first ascent to the last
	// descent.
	Width  float64
	Height float64

	Ascent     float64
	Descent    float64
	LineHeight float64

	Size  float64
	Align Align
}

// Empty reports whether the block has no glyphs.
func (b Block) Empty() bool {
	for _, l := range b.Lines {
		if len(l.Glyphs) > 0 {
			return false
		}
	}
	return true
}

// Layout shapes s and breaks it into lines.
//
// Explicit newlines always start a new line. Runs of other whitespace
// collapse to a single space.
func (f *Font) Layout(s string, st Style) Block {
	b := Block{Size: st.Size, Align: st.Align}
	if st.Size <= 0 {
		return b
	}

	scale := st.Size / shapeSize
	ascent, descent, height := f.metrics()
	b.Ascent = ascent * scale
	b.Descent = descent * scale
	b.LineHeight = height * scale
	if st.LineHeight > 0 {
		b.LineHeight = st.LineHeight * st.Size
	}

	spacing := st.LetterSpacing * st.Size
	space := f.advance(" ")*scale + spacing

	s = norm.NFC.String(s)
	for _, para := range strings.Split(s, "\n") {
		var line Line
		words := 0
		for _, word := range strings.Fields(para) {
			glyphs, width := f.shapeWord(word, scale, spacing)
			start := 0.0
			if words > 0 {
				start = line.Width + space
				if st.MaxWidth > 0 && start+width > st.MaxWidth {
					b.addLine(line)
					line, start = Line{}, 0
				}
			}
			for _, g := range glyphs {
				g.X += start
				line.Glyphs = append(line.Glyphs, g)
			}
			line.Width = start + width
			words++
		}
		b.addLine(line)
	}

	if n := len(b.Lines); n > 0 {
		b.Height = float64(n-1)*b.LineHeight + b.Ascent + b.Descent
	}
	return b
}

func (b *Block) addLine(l Line) {
	b.Lines = append(b.Lines, l)
	b.Width = max(b.Width, l.Width)
}

// shapeWord shapes a single word at shapeSize and scales the result.
// The returned width excludes the spacing after the last glyph.
func (f *Font) shapeWord(word string, scale, spacing float64) ([]Glyph, float64) {
	out := f.shapeRunes([]rune(word))
	glyphs := make([]Glyph, len(out.Glyphs))

	pen := 0.0
	for i, g := range out.Glyphs {
		glyphs[i] = Glyph{
			ID: uint16(g.GlyphID), //nolint:gosec // glyph ids fit in 16 bits
			X:  pen + fromFixed(g.XOffset)*scale,
		}
		pen += fromFixed(g.Advance)*scale + spacing
	}
	if len(glyphs) > 0 {
		pen -= spacing
	}
	return glyphs, pen
}

// advance returns the shaped advance of s at shapeSize.
func (f *Font) advance(s string) float64 {
	return fromFixed(f.shapeRunes([]rune(s)).Advance)
}

func (f *Font) shapeRunes(runes []rune) shaping.Output {
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f.shape),
		Size:      fixed.I(shapeSize),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := f.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	f.shapers.Put(hb)
	return out
}

// metrics returns ascent, descent and line height at shapeSize.
func (f *Font) metrics() (ascent, descent, height float64) {
	var buf sfnt.Buffer
	m, err := f.outline.Metrics(&buf, fixed.I(shapeSize), xfont.HintingNone)
	if err != nil {
		return shapeSize, 0, shapeSize
	}
	return fromFixed(m.Ascent), fromFixed(m.Descent), fromFixed(m.Height)
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
