package game

import "math"

// Input tuning.
const (
	ThrustForward = 5.0
	ThrustReverse = 3.0 // weaker than forward, asymmetric on purpose
	RotationSpeed = 3.0 // rad/s

	BoostEnergyCost   = 20.0
	BoostImpulse      = 10.0
	BoostCooldownTime = 1.0 // seconds

	FireEnergyCost     = 10.0
	WeaponCooldownTime = 0.2 // seconds
)

// InputState is the set of intents currently held plus the aim point, owned
// by the session and applied to the locally controlled ship only. Keeping it
// explicit (rather than ambient key state) makes ticks deterministic and
// replayable.
type InputState struct {
	Thrust      bool    `json:"thrust"`
	Reverse     bool    `json:"reverse"`
	RotateLeft  bool    `json:"rotateLeft"`
	RotateRight bool    `json:"rotateRight"`
	Boost       bool    `json:"boost"`
	Fire        bool    `json:"fire"`
	AimX        float64 `json:"aimX"`
	AimY        float64 `json:"aimY"`
}

// resolveInput maps the held intents onto the local ship for one tick.
//
// Ordering is deliberate and must stay this way: rotation keys adjust the
// heading first, thrust and boost then use that adjusted heading, the
// heading is unconditionally overridden to face the aim point, and only
// then does fire resolve. The keys therefore skew the instantaneous thrust
// vector and nothing else; shots and the rendered heading always follow the
// aim direction. Do not "fix" this into independently steerable rotation.
func (e *Engine) resolveInput(p *Player, in *InputState, dt float64) {
	p.WeaponCooldown -= dt
	p.BoostCooldown -= dt

	if in.RotateLeft {
		p.Rotation -= RotationSpeed * dt
	}
	if in.RotateRight {
		p.Rotation += RotationSpeed * dt
	}

	p.Thrusting = in.Thrust
	if in.Thrust {
		p.VX += math.Cos(p.Rotation) * ThrustForward * dt
		p.VY += math.Sin(p.Rotation) * ThrustForward * dt
		e.emitThrust(p)
	}
	if in.Reverse {
		p.VX -= math.Cos(p.Rotation) * ThrustReverse * dt
		p.VY -= math.Sin(p.Rotation) * ThrustReverse * dt
	}

	if in.Boost && p.Energy > BoostEnergyCost && p.BoostCooldown <= 0 {
		p.Energy -= BoostEnergyCost
		p.VX += math.Cos(p.Rotation) * BoostImpulse
		p.VY += math.Sin(p.Rotation) * BoostImpulse
		p.BoostCooldown = BoostCooldownTime
		e.emitBurst(p.X, p.Y, BoostParticles, ColorBoost, 120)
		e.eventLog.EmitSimple(EventTypeBoost, e.tickCount, p.ID,
			BoostPayload{PlayerID: p.ID, Energy: p.Energy})
		if e.OnBoost != nil {
			go e.OnBoost(p.ID)
		}
	}

	// Aim wins: the ship always faces the pointer.
	p.Rotation = math.Atan2(in.AimY-p.Y, in.AimX-p.X)

	if in.Fire && p.WeaponCooldown <= 0 && p.Energy >= FireEnergyCost {
		e.fireProjectile(p)
	}

	p.clampResources()
}

// fireProjectile spawns one shot and pays its costs.
func (e *Engine) fireProjectile(p *Player) {
	if len(e.projectiles) >= MaxProjectiles {
		return
	}

	proj := NewProjectile(p, e.tickCount)
	e.projectiles = append(e.projectiles, proj)
	p.WeaponCooldown = WeaponCooldownTime
	p.Energy -= FireEnergyCost

	e.emitBurst(proj.X, proj.Y, MuzzleParticles, ColorMuzzle, 80)
	e.eventLog.EmitSimple(EventTypeFire, e.tickCount, p.ID,
		FirePayload{PlayerID: p.ID, ProjectileID: proj.ID, X: proj.X, Y: proj.Y})

	if e.OnFire != nil {
		go e.OnFire(p.ID)
	}
}
