// Package ballistics holds the contract-bound arithmetic between the aiming
// surface and the trajectory engine: turret dial effects, crosswind drift,
// and the aim-to-impact composition. Magnitudes here are the simple linear
// models the contract specifies; drag and drop belong to the trajectory
// engine, not this package.
package ballistics

import (
	"github.com/shopspring/decimal"

	"github.com/rangeforge/marksim/internal/world"
)

// clickMils is the dial resolution: one click moves a turret 0.1 mil.
var clickMils = decimal.RequireFromString("0.1")

// Turret is the state of the elevation and windage dials, in mils. Dials
// are held as decimals so that repeated clicks accumulate exactly: forty
// 0.1-mil clicks is precisely 4.0 mils, never 3.9999999. Turret is a value
// type; the Click methods return adjusted copies.
type Turret struct {
	Elevation decimal.Decimal `json:"elevation"`
	Windage   decimal.Decimal `json:"windage"`
}

// NewTurret returns a turret with both dials zeroed.
func NewTurret() Turret {
	return Turret{Elevation: decimal.Zero, Windage: decimal.Zero}
}

// DialMils returns a turret set directly to the given mil values.
func DialMils(elevation, windage float64) Turret {
	return Turret{
		Elevation: decimal.NewFromFloat(elevation),
		Windage:   decimal.NewFromFloat(windage),
	}
}

// ClickElevation turns the elevation dial by the given number of clicks,
// positive up.
func (t Turret) ClickElevation(clicks int64) Turret {
	t.Elevation = t.Elevation.Add(clickMils.Mul(decimal.NewFromInt(clicks)))
	return t
}

// ClickWindage turns the windage dial by the given number of clicks,
// positive right.
func (t Turret) ClickWindage(clicks int64) Turret {
	t.Windage = t.Windage.Add(clickMils.Mul(decimal.NewFromInt(clicks)))
	return t
}

// PointShift returns the point-of-impact shift produced by the dialed mils
// at the given distance in meters. Positive elevation shifts impact up
// (+Y), positive windage shifts it right (+Z); the shift scales linearly
// with distance.
func (t Turret) PointShift(distance float64) world.Point {
	return world.Point{
		Y: world.ElevationSign * world.MilOffset(t.Elevation.InexactFloat64(), distance),
		Z: world.WindageSign * world.MilOffset(t.Windage.InexactFloat64(), distance),
	}
}

// AimCorrection returns the hold offset that cancels the dialed shift: the
// aim point, relative to target center, at which the dialed shot lands on
// center. It is the negation of PointShift. Dialing windage down one mil
// at 100 m yields an aim correction of +0.1 m.
func (t Turret) AimCorrection(distance float64) world.Point {
	return t.PointShift(distance).Scale(-1)
}
