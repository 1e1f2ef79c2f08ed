// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache shares offscreen render targets between screens.
//
// Screens that ask for the same (width, height, anisotropy) share a single
// target. Each target tracks the set of owners currently holding it. When
// the last owner releases a target it is not freed immediately: disposal is
// scheduled after a grace period (30 seconds by default), and an acquire in
// the meantime revives the target. A target is disposed only when its owner
// set stayed empty for the whole grace period.
//
// Callers can opt out of sharing per acquire; such leases own a private
// target that is disposed as soon as the lease is released.
package cache
