// motion-probe prints the motion config a seed generates and samples the
// resulting trajectory over one period. Handy when tuning bounds or
// checking what a curated seed actually moves like.
package main

import (
	"flag"
	"fmt"

	"github.com/rangeforge/marksim/internal/motion"
	"github.com/rangeforge/marksim/internal/world"
)

func main() {
	seed := flag.Int64("seed", 42, "generation seed")
	samples := flag.Int("samples", 8, "samples across one period")
	flag.Parse()

	cfg, err := motion.GenerateConfig(motion.DefaultBounds(), *seed)
	if err != nil {
		fmt.Printf("generation failed: %v\n", err)
		return
	}

	fmt.Printf("seed %d -> axis=%s speed=%.4f cps amplitude=%.4f m\n",
		*seed, cfg.Axis, cfg.Speed, cfg.Amplitude)
	fmt.Printf("period %.1f ms, peak speed %.4f m/s\n\n", cfg.PeriodMillis(), cfg.PeakSpeed())

	center := world.Point{Y: 1.0, Z: 0}
	period := cfg.PeriodMillis()
	if period == 0 {
		fmt.Println("stationary config, nothing to sample")
		return
	}

	fmt.Println("   t(ms)        y        z     vy(m/s)  vz(m/s)")
	for i := 0; i <= *samples; i++ {
		t := period * float64(i) / float64(*samples)
		pos := motion.Position(center, cfg, t)
		vel := motion.Velocity(cfg, t)
		fmt.Printf("%8.1f %8.4f %8.4f %10.4f %8.4f\n", t, pos.Y, pos.Z, vel.Y, vel.Z)
	}
}
