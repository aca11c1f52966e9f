// Package world defines the coordinate and sign conventions every numeric
// component of the simulator agrees on. The axioms are fixed here once and
// enforced by the test battery rather than by runtime checks in hot paths.
//
// World axes (right-handed, from the shooter's position):
//
//	X: longitudinal, positive toward the target
//	Y: vertical, positive up
//	Z: lateral, positive right
//
// Aim and impact offsets are expressed relative to target center and share
// the world Y/Z signs: positive aimY is above center, positive aimZ is right
// of center. Positive elevation dial moves the point of impact up (+Y),
// positive windage moves it right (+Z). Positive crosswind blows left to
// right and drifts impacts right (+Z).
package world

import "fmt"

// Sign constants for the convention contract. Components that compose
// offsets multiply by these instead of hard-coding a direction, so a reader
// can trace every sign back to this package.
const (
	// ElevationSign maps a positive elevation dial to a +Y impact shift.
	ElevationSign = 1.0
	// WindageSign maps a positive windage dial to a +Z impact shift.
	WindageSign = 1.0
	// WindDriftSign maps a positive (left-to-right) crosswind to +Z drift.
	WindDriftSign = 1.0
	// CanvasYSign is the world-Y to canvas-Y factor. Canvas Y grows
	// downward, world Y grows up, so the mapping must negate.
	CanvasYSign = -1.0
)

// MilDivisor converts an angular mil to a linear offset: one mil at
// distance d meters subtends d/MilDivisor meters.
const MilDivisor = 1000.0

// Point is a (Y, Z) pair in world coordinates: Y vertical (up positive),
// Z lateral (right positive). It doubles as a 2D vector for velocities
// and offsets, which share the same sign convention.
type Point struct {
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of two points.
func (p Point) Add(q Point) Point {
	return Point{Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns the component-wise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Scale returns the point scaled by k.
func (p Point) Scale(k float64) Point {
	return Point{Y: p.Y * k, Z: p.Z * k}
}

// String formats the point for logs and debug output.
func (p Point) String() string {
	return fmt.Sprintf("(y=%.4f, z=%.4f)", p.Y, p.Z)
}

// MilOffset converts a dial adjustment in mils to a linear offset in meters
// at the given distance. The relationship is linear in distance: one mil at
// 100 m is 0.1 m, at 200 m it is 0.2 m.
func MilOffset(mils, distance float64) float64 {
	return mils * distance / MilDivisor
}
