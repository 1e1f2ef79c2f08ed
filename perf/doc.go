// Package perf measures frame pacing for the scene.
//
// A single [Sampler] is ticked once per displayed frame by the host loop.
// It keeps a frame counter and an exponentially smoothed frames-per-second
// estimate, and publishes an immutable [FrameMetrics] snapshot that any
// number of readers may load concurrently.
//
// The smoothing factor is 0.1: a new sample contributes ten percent of the
// estimate, so a single slow frame does not flip quality decisions made
// from the estimate.
package perf
