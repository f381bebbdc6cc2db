// Package core provides fundamental types and utilities for the runner.
// It contains no external dependencies (especially no Bubble Tea) to keep
// simulation logic pure and testable.
package core

import "math"

// Vec2 is a point or displacement in track units.
type Vec2 struct {
	X, Y float64
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Hitbox is an axis-aligned box described by its center and half extents.
// Edges are exclusive: a point exactly HalfW away does not overlap.
type Hitbox struct {
	Center Vec2
	HalfW  float64
	HalfH  float64
}

// Overlaps reports whether p lies strictly inside the box.
func (h Hitbox) Overlaps(p Vec2) bool {
	return math.Abs(h.Center.X-p.X) < h.HalfW && math.Abs(h.Center.Y-p.Y) < h.HalfH
}

// Approach moves cur toward target by the given fraction of the remaining gap.
// A factor of 1 snaps immediately, 0 never moves.
func Approach(cur, target, factor float64) float64 {
	return cur + (target-cur)*factor
}

// Rect is an integer cell rectangle used for screen drawing.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
