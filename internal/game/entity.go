package game

import "math"

// Entity is the spatial state shared by every simulated object in the arena.
// Position and velocity are in arena pixels, rotation in radians.
type Entity struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Rotation  float64 `json:"rotation"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
	Active    bool    `json:"active"`
}

// FixedStepScale compensates for the historical 60 Hz fixed-step assumption:
// ships and asteroids carry velocity in per-frame units, so integration
// multiplies by deltaTime*60. Projectiles and particles use per-second units
// and integrate at deltaTime directly. The asymmetry keeps unit parity with
// the original tuning constants.
const FixedStepScale = 60.0

// VelocityDrag is the multiplicative per-tick velocity decay for ships,
// asteroids and particles.
const VelocityDrag = 0.98

func distance(ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	return math.Sqrt(dx*dx + dy*dy)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrap teleports a coordinate to the opposite edge once it crosses a bound,
// with an optional margin so large bodies fully exit before reappearing.
func wrap(v, limit, margin float64) float64 {
	if v < -margin {
		return limit + margin
	}
	if v > limit+margin {
		return -margin
	}
	return v
}
