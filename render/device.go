// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// ErrNoHALDevice is returned when a DeviceHandle does not expose wgpu HAL
// objects.
var ErrNoHALDevice = errors.New("render: device handle does not provide a HAL device")

// DeviceHandle provides GPU device access from the host application.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider. Device and Queue
// must return hal.Device and hal.Queue values to be usable by
// NewHALAllocatorFrom.
type DeviceHandle = gpucontext.DeviceProvider

// HALDevice is a DeviceHandle over an opened wgpu HAL device.
type HALDevice struct {
	device   hal.Device
	queue    hal.Queue
	info     gpucontext.AdapterInfo
	instance hal.Instance
}

// Device returns the HAL device.
func (d *HALDevice) Device() gpucontext.Device { return d.device }

// Queue returns the HAL queue.
func (d *HALDevice) Queue() gpucontext.Queue { return d.queue }

// Adapter returns nil; the adapter is not retained after opening.
func (d *HALDevice) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined: HAL devices opened here are headless.
func (d *HALDevice) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo returns the adapter metadata captured at open time.
func (d *HALDevice) AdapterInfo() gpucontext.AdapterInfo { return d.info }

// HAL returns the underlying device and queue.
func (d *HALDevice) HAL() (hal.Device, hal.Queue) {
	return d.device, d.queue
}

// Close destroys the device and its instance.
func (d *HALDevice) Close() {
	if d.device != nil {
		d.device.Destroy()
		d.device = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}

// OpenNoop opens a device on the noop backend. Resources created on it have
// no storage; it is used for headless runs and tests.
func OpenNoop() (*HALDevice, error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("render: create noop instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("render: noop backend exposes no adapter")
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("render: open noop device: %w", err)
	}
	return &HALDevice{
		device:   open.Device,
		queue:    open.Queue,
		instance: instance,
		info: gpucontext.AdapterInfo{
			Name: adapters[0].Info.Name,
			Type: gpucontext.AdapterTypeSoftware,
		},
	}, nil
}

// halObjects extracts HAL objects from a DeviceHandle.
func halObjects(h DeviceHandle) (hal.Device, hal.Queue, error) {
	dev, ok := h.Device().(hal.Device)
	if !ok || dev == nil {
		return nil, nil, ErrNoHALDevice
	}
	q, ok := h.Queue().(hal.Queue)
	if !ok || q == nil {
		return nil, nil, ErrNoHALDevice
	}
	return dev, q, nil
}

var _ DeviceHandle = (*HALDevice)(nil)
