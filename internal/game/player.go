package game

import "math"

// Player resource and combat tuning.
const (
	PlayerMaxHealth = 100.0
	PlayerMaxShield = 50.0
	PlayerMaxEnergy = 100.0

	// PlayerHitRadius is the distance at which a projectile connects.
	PlayerHitRadius = 20.0

	KillScore = 100
)

// Player is a participant's ship. Exactly two exist per session (local and
// remote); they are never removed, only soft-respawned on defeat.
type Player struct {
	Entity

	Score  int `json:"score"`
	Kills  int `json:"kills"`
	Deaths int `json:"deaths"`

	Shield    float64 `json:"shield"`
	MaxShield float64 `json:"maxShield"`
	Energy    float64 `json:"energy"`
	MaxEnergy float64 `json:"maxEnergy"`

	WeaponCooldown float64 `json:"-"`
	BoostCooldown  float64 `json:"-"`

	// Thrusting is set by the input resolver for the engine-trail emitter
	// and the renderer; it carries no simulation weight of its own.
	Thrusting bool `json:"thrusting"`
}

// NewPlayer creates a ship at the given position with full resources.
func NewPlayer(id string, x, y float64) *Player {
	return &Player{
		Entity: Entity{
			ID:        id,
			X:         x,
			Y:         y,
			Health:    PlayerMaxHealth,
			MaxHealth: PlayerMaxHealth,
			Active:    true,
		},
		Shield:    PlayerMaxShield,
		MaxShield: PlayerMaxShield,
		Energy:    PlayerMaxEnergy,
		MaxEnergy: PlayerMaxEnergy,
	}
}

// ApplyDamage routes damage through the shield first, then health.
// Returns true when the hit is lethal (health driven to or below zero).
func (p *Player) ApplyDamage(amount float64) bool {
	absorbed := math.Min(p.Shield, amount)
	p.Shield -= absorbed
	p.Health -= amount - absorbed
	return p.Health <= 0
}

// Respawn restores full resources and relocates the ship. The entity itself
// persists; defeat never removes a player from the store.
func (p *Player) Respawn(x, y float64) {
	p.Health = p.MaxHealth
	p.Shield = p.MaxShield
	p.Energy = p.MaxEnergy
	p.X = x
	p.Y = y
	p.VX = 0
	p.VY = 0
	p.WeaponCooldown = 0
	p.BoostCooldown = 0
	p.Thrusting = false
}

// updatePhysics integrates one tick of ship motion: fixed-step scaled
// integration, drag, then a hard wrap at the arena edges.
func (p *Player) updatePhysics(dt, width, height float64) {
	p.X += p.VX * dt * FixedStepScale
	p.Y += p.VY * dt * FixedStepScale
	p.VX *= VelocityDrag
	p.VY *= VelocityDrag

	p.X = wrap(p.X, width, 0)
	p.Y = wrap(p.Y, height, 0)
}

// clampResources enforces the resource invariants after a tick's mutations.
func (p *Player) clampResources() {
	p.Health = clamp(p.Health, 0, p.MaxHealth)
	p.Shield = clamp(p.Shield, 0, p.MaxShield)
	p.Energy = clamp(p.Energy, 0, p.MaxEnergy)
	if p.WeaponCooldown < 0 {
		p.WeaponCooldown = 0
	}
	if p.BoostCooldown < 0 {
		p.BoostCooldown = 0
	}
}
