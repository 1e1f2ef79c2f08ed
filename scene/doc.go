// Package scene defines what the elements of the desk scene share: the Env
// handed to them on mount, the per-frame FrameTime, and pointer events.
//
// There is no package-level state. The owner of a scene builds one Env,
// mounts every element with it, calls Frame once per display frame and
// finally unmounts the elements in reverse order.
package scene
