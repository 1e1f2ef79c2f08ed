// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned by ParseColor.
var ErrInvalidColor = errors.New("render: invalid color")

// Color is a non-premultiplied RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Scene palette.
var (
	Glow   = MustParseColor("#35c19f")
	White  = Color{1, 1, 1, 1}
	Black  = Color{0, 0, 0, 1}
	Orange = MustParseColor("orange")
	Blue   = MustParseColor("#3b82f6")
	Purple = MustParseColor("#8b5cf6")
)

// FromRGBA converts an 8-bit color.
func FromRGBA(c color.RGBA) Color {
	return Color{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" or a CSS color name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[strings.ToLower(s)]
		if !ok {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return FromRGBA(c), nil
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	//nolint:gosec // G115: masked to 8 bits
	return FromRGBA(color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}), nil
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Scale multiplies the color channels by k, leaving alpha.
func (c Color) Scale(k float32) Color {
	return Color{c.R * k, c.G * k, c.B * k, c.A}
}

// Lerp blends c toward d by t.
func (c Color) Lerp(d Color, t float32) Color {
	return Color{
		R: c.R + (d.R-c.R)*t,
		G: c.G + (d.G-c.G)*t,
		B: c.B + (d.B-c.B)*t,
		A: c.A + (d.A-c.A)*t,
	}
}

// RGBA8 converts to an 8-bit color, clamping each channel.
func (c Color) RGBA8() color.RGBA {
	return color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	v := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", v.R, v.G, v.B)
}

// String returns Hex.
func (c Color) String() string {
	return c.Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
