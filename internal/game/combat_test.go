package game

import "testing"

// newDuelEngine builds a started engine with two ships and an empty field.
func newDuelEngine(t *testing.T) (*Engine, *Player, *Player) {
	t.Helper()
	e := newTestEngine(t)
	clearField(e)
	e.RegisterRemote("p2")
	return e, e.players["p1"], e.players["p2"]
}

// placeShot parks a stationary projectile owned by shooter at (x, y).
func placeShot(e *Engine, shooter *Player, x, y float64) *Projectile {
	pr := NewProjectile(shooter, e.tickCount)
	pr.X = x
	pr.Y = y
	pr.VX = 0
	pr.VY = 0
	e.projectiles = append(e.projectiles, pr)
	return pr
}

// TestApplyDamageShieldFirst tests that shields absorb before health
func TestApplyDamageShieldFirst(t *testing.T) {
	p := NewPlayer("p1", 0, 0)
	p.Shield = 30
	p.Health = 100

	lethal := p.ApplyDamage(50)

	if lethal {
		t.Error("50 damage against 30 shield + 100 health should not be lethal")
	}
	if p.Shield != 0 {
		t.Errorf("Expected shield 0, got %v", p.Shield)
	}
	if p.Health != 80 {
		t.Errorf("Expected health 80, got %v", p.Health)
	}
}

// TestApplyDamageShieldAbsorbsAll tests a fully shielded hit
func TestApplyDamageShieldAbsorbsAll(t *testing.T) {
	p := NewPlayer("p1", 0, 0)
	p.Shield = 50

	p.ApplyDamage(25)

	if p.Shield != 25 {
		t.Errorf("Expected shield 25, got %v", p.Shield)
	}
	if p.Health != 100 {
		t.Errorf("Expected health untouched at 100, got %v", p.Health)
	}
}

// TestApplyDamageLethal tests the lethal return
func TestApplyDamageLethal(t *testing.T) {
	p := NewPlayer("p1", 0, 0)
	p.Shield = 0
	p.Health = 20

	if !p.ApplyDamage(25) {
		t.Error("Expected lethal result when damage exceeds remaining health")
	}
}

// TestProjectileHitDamagesVictim tests a shot landing on the opponent
func TestProjectileHitDamagesVictim(t *testing.T) {
	e, p1, p2 := newDuelEngine(t)
	p2.X = 400
	p2.Y = 300
	p2.Shield = 0

	placeShot(e, p1, 405, 300) // inside the 20px hit radius
	e.resolveCollisions()

	if p2.Health != 75 {
		t.Errorf("Expected health 75 after one hit, got %v", p2.Health)
	}
	if len(e.projectiles) != 0 {
		t.Errorf("Expected projectile consumed by the hit, got %d", len(e.projectiles))
	}
}

// TestProjectileMissOutsideRadius tests the strict hit radius
func TestProjectileMissOutsideRadius(t *testing.T) {
	e, p1, p2 := newDuelEngine(t)
	p2.X = 400
	p2.Y = 300

	placeShot(e, p1, 420, 300) // exactly at the radius, a miss
	e.resolveCollisions()

	if p2.Health != p2.MaxHealth {
		t.Errorf("Expected no damage at exact radius, health %v", p2.Health)
	}
	if len(e.projectiles) != 1 {
		t.Errorf("Expected projectile to survive a miss, got %d", len(e.projectiles))
	}
}

// TestNoSelfDamage tests that a ship never hits itself
func TestNoSelfDamage(t *testing.T) {
	e, p1, _ := newDuelEngine(t)
	p1.X = 400
	p1.Y = 300

	placeShot(e, p1, 400, 300)
	e.resolveCollisions()

	if p1.Health != p1.MaxHealth {
		t.Errorf("Expected no self damage, health %v", p1.Health)
	}
	if len(e.projectiles) != 1 {
		t.Errorf("Expected own projectile to pass through, got %d", len(e.projectiles))
	}
}

// TestLethalHitSoftRespawn tests that a kill restores and relocates the
// victim while crediting the shooter
func TestLethalHitSoftRespawn(t *testing.T) {
	e, p1, p2 := newDuelEngine(t)
	p2.X = 400
	p2.Y = 300
	p2.Shield = 0
	p2.Health = 10

	placeShot(e, p1, 400, 300)
	e.resolveCollisions()

	if len(e.players) != 2 {
		t.Fatalf("Victim must stay in the session, got %d players", len(e.players))
	}
	if p2.Health != p2.MaxHealth {
		t.Errorf("Expected full health after respawn, got %v", p2.Health)
	}
	if p2.Shield != p2.MaxShield {
		t.Errorf("Expected full shield after respawn, got %v", p2.Shield)
	}
	if p2.VX != 0 || p2.VY != 0 {
		t.Errorf("Expected zero velocity after respawn, got (%v,%v)", p2.VX, p2.VY)
	}
	if p2.Deaths != 1 {
		t.Errorf("Expected 1 death, got %d", p2.Deaths)
	}
	if p1.Kills != 1 {
		t.Errorf("Expected 1 kill, got %d", p1.Kills)
	}
	if p1.Score != KillScore {
		t.Errorf("Expected score %d, got %d", KillScore, p1.Score)
	}
}

// TestSecondHitSeesRespawnedState tests that later projectiles in the same
// tick resolve against the respawned victim, not the dead one
func TestSecondHitSeesRespawnedState(t *testing.T) {
	e, p1, p2 := newDuelEngine(t)
	p2.X = 400
	p2.Y = 300
	p2.Shield = 0
	p2.Health = 10

	placeShot(e, p1, 400, 300)
	placeShot(e, p1, 401, 300)
	e.resolveCollisions()

	if p2.Deaths != 1 {
		t.Errorf("Expected exactly 1 death from the volley, got %d", p2.Deaths)
	}
	if p1.Score != KillScore {
		t.Errorf("Expected a single kill credit, got score %d", p1.Score)
	}
	// The respawned ship keeps whatever the second projectile did to its
	// fresh pools; it must never be below a single hit from full.
	if p2.Health+p2.Shield < p2.MaxHealth+p2.MaxShield-ProjectileDamage {
		t.Errorf("Respawned pools too low: health=%v shield=%v", p2.Health, p2.Shield)
	}
}

// TestProjectileAsteroidCollision tests that rocks eat shots and survive
func TestProjectileAsteroidCollision(t *testing.T) {
	e, p1, _ := newDuelEngine(t)

	a := NewAsteroid(0, e.rng, 800, 600)
	a.X = 400
	a.Y = 300
	a.Size = 30
	e.asteroids = append(e.asteroids, a)

	placeShot(e, p1, 410, 300)
	e.resolveCollisions()

	if len(e.projectiles) != 0 {
		t.Errorf("Expected projectile absorbed by asteroid, got %d", len(e.projectiles))
	}
	if len(e.asteroids) != 1 {
		t.Errorf("Asteroid must survive, got %d", len(e.asteroids))
	}
	if a.Size != 30 {
		t.Errorf("Asteroid must be unchanged, size %v", a.Size)
	}
}

// TestPlayerHitBeforeAsteroid tests resolution order when a shot overlaps
// both a ship and a rock
func TestPlayerHitBeforeAsteroid(t *testing.T) {
	e, p1, p2 := newDuelEngine(t)
	p2.X = 400
	p2.Y = 300
	p2.Shield = 0

	a := NewAsteroid(0, e.rng, 800, 600)
	a.X = 400
	a.Y = 300
	a.Size = 30
	e.asteroids = append(e.asteroids, a)

	placeShot(e, p1, 405, 300)
	e.resolveCollisions()

	if p2.Health != 75 {
		t.Errorf("Expected ship hit to win, health %v", p2.Health)
	}
}

// TestHitEmitsParticles tests the impact burst
func TestHitEmitsParticles(t *testing.T) {
	e, p1, p2 := newDuelEngine(t)
	p2.X = 400
	p2.Y = 300

	placeShot(e, p1, 400, 300)
	e.resolveCollisions()

	if len(e.particles) != HitParticles {
		t.Errorf("Expected %d hit particles, got %d", HitParticles, len(e.particles))
	}
}

// TestKillCallbackFires tests the asynchronous kill notification
func TestKillCallbackFires(t *testing.T) {
	e, p1, p2 := newDuelEngine(t)
	p2.X = 400
	p2.Y = 300
	p2.Shield = 0
	p2.Health = 10

	done := make(chan [2]string, 1)
	e.OnKill = func(killer, victim string) {
		done <- [2]string{killer, victim}
	}

	placeShot(e, p1, 400, 300)
	e.resolveCollisions()

	got := <-done
	if got[0] != "p1" || got[1] != "p2" {
		t.Errorf("Expected kill callback (p1,p2), got (%s,%s)", got[0], got[1])
	}
}

// TestParticleCapHolds tests the global particle pool limit
func TestParticleCapHolds(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)

	for i := 0; i < 200; i++ {
		e.emitBurst(400, 300, ExplosionParticles, ColorExplosion, 100)
	}

	if len(e.particles) > MaxParticles {
		t.Errorf("Particle count %d exceeds cap %d", len(e.particles), MaxParticles)
	}
}
