// Package mesh provides the named mesh templates the scene instantiates.
//
// Geometry is loaded elsewhere. The scene only needs each template's
// bounding box and its finished material, available before the first
// frame. A Library is built once and never modified afterwards, so
// several screens may reference the same template safely.
package mesh
