// Package screen implements the monitor screens of the desk scene.
//
// A Surface draws a monitor: the frame mesh, a translucent glow behind the
// panel, the panel itself textured with the screen content, an optional
// scanline overlay and four rounded corner pieces. The content is painted
// into an offscreen render target leased from the render-target cache at
// the resolution of the current quality profile.
//
// Content is one of three variants: Interactive, Text or Image.
//
// Surfaces are driven from the scene's frame loop and are not safe for
// concurrent use.
package screen
