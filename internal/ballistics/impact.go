package ballistics

import "github.com/rangeforge/marksim/internal/world"

// Drift returns the lateral impact displacement, in meters, caused by a
// crosswind over the bullet's flight. Positive crosswind blows left to
// right and drifts the impact right (+Z); negative wind drifts it left.
// The magnitude is the lag-free linear carry (wind speed times time of
// flight); a trajectory engine refines it, but must keep the sign.
func Drift(crosswind, timeOfFlight float64) float64 {
	return world.WindDriftSign * crosswind * timeOfFlight
}

// Shot carries the inputs the impact composition needs. Aim is the hold
// point relative to target center, in world coordinates; Crosswind is in
// m/s, positive left-to-right; TimeOfFlight is in seconds.
type Shot struct {
	Aim          world.Point `json:"aim"`
	Distance     float64     `json:"distance"`
	Crosswind    float64     `json:"crosswind"`
	TimeOfFlight float64     `json:"time_of_flight"`
}

// Impact composes the aim offset with wind drift into an impact point
// relative to target center. With zero wind the aim passes through
// sign-preserved: aiming 0.1 m right lands 0.1 m right. Dial effects are
// applied upstream via Turret.AimCorrection and arrive folded into Aim.
func Impact(shot Shot) world.Point {
	drift := world.Point{Z: Drift(shot.Crosswind, shot.TimeOfFlight)}
	return shot.Aim.Add(drift)
}
