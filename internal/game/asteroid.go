package game

import (
	"fmt"
	"math"
	"math/rand"
)

// Asteroid tuning.
const (
	AsteroidMinSize = 20.0
	AsteroidMaxSize = 50.0
	AsteroidSpinMax = 2.0 // rad/s, cosmetic
)

// Asteroid is a permanent field hazard. It drifts, spins, and wraps at the
// boundaries with a margin equal to its size so it fully exits before
// reappearing. Asteroids are scenery, not targets: nothing in the game
// destroys one; a projectile impact only destroys the projectile.
type Asteroid struct {
	Entity

	Size          float64 `json:"size"` // collision radius
	RotationSpeed float64 `json:"-"`
}

// NewAsteroid creates a drifting asteroid at a random position.
func NewAsteroid(idx int, rng *rand.Rand, width, height float64) *Asteroid {
	size := AsteroidMinSize + rng.Float64()*(AsteroidMaxSize-AsteroidMinSize)
	spin := (rng.Float64()*2 - 1) * AsteroidSpinMax

	return &Asteroid{
		Entity: Entity{
			ID: fmt.Sprintf("asteroid_%d", idx),
			X:  rng.Float64() * width,
			Y:  rng.Float64() * height,
			// Per-frame velocity units, integrated at the 60x scale.
			VX:       rng.Float64()*2 - 1,
			VY:       rng.Float64()*2 - 1,
			Rotation: rng.Float64() * 2 * math.Pi,
			Active:   true,
		},
		Size:          size,
		RotationSpeed: spin,
	}
}

// update integrates one tick of drift and spin, wrapping with the size
// margin.
func (a *Asteroid) update(dt, width, height float64) {
	a.X += a.VX * dt * FixedStepScale
	a.Y += a.VY * dt * FixedStepScale
	a.VX *= VelocityDrag
	a.VY *= VelocityDrag
	a.Rotation += a.RotationSpeed * dt

	a.X = wrap(a.X, width, a.Size)
	a.Y = wrap(a.Y, height, a.Size)
}
