package game

import (
	"fmt"
	"math"
)

// Projectile tuning.
const (
	ProjectileDamage   = 25.0
	ProjectileLifetime = 3.0   // seconds
	ProjectileSpeed    = 400.0 // pixels/second along the shooter's heading
	ProjectileOffset   = 22.0  // spawn distance from ship center

	// MaxProjectiles is a hard cap; the fire cooldown makes it unreachable
	// in normal play, but remote state is untrusted.
	MaxProjectiles = 64
)

// Projectile is a fired shot. It is owned exclusively by the engine's
// collection; removal is immediate and final, there is no object reuse.
type Projectile struct {
	Entity

	OwnerID string  `json:"ownerId"`
	Damage  float64 `json:"damage"`
	Life    float64 `json:"life"` // seconds remaining
}

// NewProjectile spawns a shot at the shooter's nose traveling along its
// heading.
func NewProjectile(owner *Player, seq uint64) *Projectile {
	dirX := math.Cos(owner.Rotation)
	dirY := math.Sin(owner.Rotation)

	return &Projectile{
		Entity: Entity{
			ID:       fmt.Sprintf("proj_%d_%s", seq, owner.ID),
			X:        owner.X + dirX*ProjectileOffset,
			Y:        owner.Y + dirY*ProjectileOffset,
			VX:       dirX * ProjectileSpeed,
			VY:       dirY * ProjectileSpeed,
			Rotation: owner.Rotation,
			Active:   true,
		},
		OwnerID: owner.ID,
		Damage:  ProjectileDamage,
		Life:    ProjectileLifetime,
	}
}

// update integrates one tick. Projectiles do not wrap; returns false once
// the shot expires or leaves the field, which marks it for removal.
func (p *Projectile) update(dt, width, height float64) bool {
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Life -= dt

	if p.Life <= 0 {
		return false
	}
	if p.X < 0 || p.X > width || p.Y < 0 || p.Y > height {
		return false
	}
	return true
}
