// Package host runs a scene in a desktop window.
//
// The window shows every screen flat on a grid, framed and lit the way the
// draw list describes, with the status lights along the bottom edge. The
// mouse hovers and clicks screens and the wheel moves the camera, which
// drives the quality tier.
//
// Windows need cgo; without it Run returns ErrNoWindow.
package host
