package game

import (
	"math"
	"math/rand"
)

// Particle burst sizes per combat/movement event.
const (
	ThrustParticles    = 3 // per tick while thrusting
	BoostParticles     = 8
	MuzzleParticles    = 5
	HitParticles       = 6
	ExplosionParticles = 12
	PickupParticles    = 8

	// MaxParticles caps the pool; bursts beyond it are silently dropped.
	MaxParticles = 512
)

// Effect colors.
const (
	ColorThrust         = "#ff9800"
	ColorMuzzle         = "#ffeb3b"
	ColorHit            = "#ffffff"
	ColorExplosion      = "#ff9800" // asteroid impacts and generic blasts
	ColorDeathExplosion = "#f44336" // player destruction
	ColorBoost          = "#00e5ff"
)

// Particle is purely cosmetic: it has no identity and no gameplay weight.
// Velocity is in pixels/second, integrated at deltaTime directly.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Color   string
	Life    float64 // seconds remaining
	MaxLife float64
	Size    float64
}

// newParticle creates a particle flung in a random direction.
func newParticle(rng *rand.Rand, x, y float64, color string, speed float64) *Particle {
	angle := rng.Float64() * 2 * math.Pi
	v := speed * (0.4 + rng.Float64()*0.6)
	life := 0.3 + rng.Float64()*0.5

	return &Particle{
		X:       x,
		Y:       y,
		VX:      math.Cos(angle) * v,
		VY:      math.Sin(angle) * v,
		Color:   color,
		Life:    life,
		MaxLife: life,
		Size:    1 + rng.Float64()*2,
	}
}

// update integrates one tick; returns false once the particle has expired.
func (pt *Particle) update(dt float64) bool {
	pt.X += pt.VX * dt
	pt.Y += pt.VY * dt
	pt.VX *= VelocityDrag
	pt.VY *= VelocityDrag
	pt.Life -= dt
	return pt.Life > 0
}

// emitBurst spawns count particles at a point, dropping any above the cap.
func (e *Engine) emitBurst(x, y float64, count int, color string, speed float64) {
	for i := 0; i < count; i++ {
		if len(e.particles) >= MaxParticles {
			return
		}
		e.particles = append(e.particles, newParticle(e.rng, x, y, color, speed))
	}
}

// emitThrust streams exhaust behind a thrusting ship.
func (e *Engine) emitThrust(p *Player) {
	backX := p.X - math.Cos(p.Rotation)*12
	backY := p.Y - math.Sin(p.Rotation)*12
	e.emitBurst(backX, backY, ThrustParticles, ColorThrust, 60)
}
