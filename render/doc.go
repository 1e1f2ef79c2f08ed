// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the offscreen render targets, materials and
// shaders used by the scene's screens.
//
// # Targets
//
// A [Target] is an offscreen surface a screen draws its content into
// before the content is mapped onto the screen mesh. Targets are created
// by an [Allocator]:
//
//   - [HALAllocator] creates a GPU texture, view and anisotropic sampler on
//     a wgpu HAL device. Content is uploaded through the device queue.
//   - [PixmapAllocator] creates CPU targets backed by *image.RGBA, for
//     headless runs and tests.
//
// Hosts with their own image type (such as the windowed host) implement
// Allocator themselves.
//
// # Device Integration
//
// render RECEIVES the device from the host, it does not pick a GPU. The host
// passes a [DeviceHandle] (gpucontext.DeviceProvider) whose Device and Queue
// are wgpu HAL objects, or calls [NewHALAllocator] directly. [OpenNoop]
// opens a device on the noop backend for headless operation.
//
// # Materials
//
// [Material] values are built once by [NewMaterials] and never modified
// afterwards, so any number of screens may reference them.
package render
