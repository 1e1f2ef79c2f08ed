// Package retrodesk renders a desk of retro computers whose monitors show
// live content, and keeps it smooth on slow devices.
//
// # Overview
//
// The scene is nine monitors and a row of blinking status lights. Each
// monitor paints its content (a spinning box, drifting text or a picture)
// into an offscreen render target and shows it behind a glow layer, an
// optional scanline overlay and four rounded corners.
//
// Every frame the scene:
//
//  1. samples the frame rate (package perf),
//  2. picks a quality tier from the camera distance (package quality),
//  3. lets each animated element ask whether it may update this frame
//     (package anim), and
//  4. advances the elements, which offload their pure per-frame math to
//     background workers (package compute) and share render targets of
//     equal size (package cache).
//
// # Quick Start
//
//	s, err := retrodesk.New(config.Default(), render.PixmapAllocator{})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	if err := s.Mount(); err != nil {
//		return err
//	}
//	for frame := range frames {
//		s.Frame(frame.NowMs, frame.Camera)
//		draw(s.Render())
//	}
//
// # Hosts
//
// internal/host runs a scene in an ebiten window; cmd/retrodesk wraps it
// together with a headless runner and a terminal monitor.
//
// # Logging
//
// retrodesk is silent by default. Use SetLogger or WithLogger to enable
// structured logging via log/slog.
package retrodesk
