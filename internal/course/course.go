// Package course models a generated shooting course: a set of animated
// targets with authored positions and procedurally generated motion. Course
// generation is reproducible, the same seed and sites always produce the
// same motion configs, so a course can be stored as little as its seed.
package course

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rangeforge/marksim/internal/motion"
	"github.com/rangeforge/marksim/internal/world"
)

// Site is the authored placement of one target: where its center sits in
// world coordinates and how far downrange it stands. Sites come from level
// data and are never mutated by generation.
type Site struct {
	Center   world.Point `json:"center"`
	Distance float64     `json:"distance"`
}

// Target is one animated target on a course. Config is immutable for the
// target's lifetime.
type Target struct {
	ID       uuid.UUID     `json:"id"`
	Center   world.Point   `json:"center"`
	Distance float64       `json:"distance"`
	Config   motion.Config `json:"config"`
}

// StateAt returns the target's position and velocity at tMillis
// milliseconds since session start, in world coordinates.
func (t Target) StateAt(tMillis float64) (pos, vel world.Point) {
	return motion.Position(t.Center, t.Config, tMillis), motion.Velocity(t.Config, tMillis)
}

// Course is a generated set of targets together with the inputs that
// produced it.
type Course struct {
	ID        uuid.UUID     `json:"id"`
	Seed      int64         `json:"seed"`
	Bounds    motion.Bounds `json:"bounds"`
	Targets   []Target      `json:"targets"`
	CreatedAt time.Time     `json:"created_at"`
}

// Generate builds a course from a seed and the authored sites. Target i
// draws its motion config from the seed's stream at nonce i, so every
// target moves independently yet the whole course reproduces from the seed.
// Target IDs are fresh UUIDs; identity is not part of the reproducible
// surface, motion is.
func Generate(seed int64, bounds motion.Bounds, sites []Site) (*Course, error) {
	if len(sites) == 0 {
		return nil, fmt.Errorf("course needs at least one target site")
	}

	c := &Course{
		ID:        uuid.New(),
		Seed:      seed,
		Bounds:    bounds.Normalize(),
		Targets:   make([]Target, 0, len(sites)),
		CreatedAt: time.Now().UTC(),
	}

	for i, site := range sites {
		cfg, err := motion.GenerateConfigAt(bounds, seed, uint64(i))
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		c.Targets = append(c.Targets, Target{
			ID:       uuid.New(),
			Center:   site.Center,
			Distance: site.Distance,
			Config:   cfg,
		})
	}

	return c, nil
}
