// Package text lays out and paints the short messages shown on the
// monitor screens.
//
// Layout happens in scene units: a Style gives the em size, letter
// spacing and wrap width in the same units the content camera sees.
// Text is NFC-normalized and shaped with go-text/typesetting (HarfBuzz),
// then wrapped greedily at word boundaries. Draw projects a laid out
// Block through a Camera onto an *image.RGBA and rasterizes the glyph
// outlines with golang.org/x/image.
//
// Basic usage:
//
//	f, err := text.DefaultFont()
//	if err != nil {
//		return err
//	}
//	b := f.Layout("System online.", text.Style{Size: 4, LetterSpacing: -0.1, MaxWidth: 30})
//	f.Draw(img, b, 0, 1.2, text.DefaultCamera(), color.Black)
package text
