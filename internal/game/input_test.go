package game

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// TestFireSpawnsProjectile tests the happy path of firing
func TestFireSpawnsProjectile(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]

	e.SetInput(InputState{Fire: true, AimX: p1.X + 100, AimY: p1.Y})
	e.Update(0.02)

	if len(e.projectiles) != 1 {
		t.Fatalf("Expected 1 projectile, got %d", len(e.projectiles))
	}
	pr := e.projectiles[0]
	if pr.OwnerID != "p1" {
		t.Errorf("Expected owner p1, got %s", pr.OwnerID)
	}
	if pr.Damage != ProjectileDamage {
		t.Errorf("Expected damage %v, got %v", ProjectileDamage, pr.Damage)
	}
	if p1.WeaponCooldown <= 0 {
		t.Error("Expected weapon cooldown set after firing")
	}
}

// TestFireCooldownGate tests that holding fire yields exactly one shot per
// cooldown window
func TestFireCooldownGate(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]

	e.SetInput(InputState{Fire: true, AimX: p1.X + 100, AimY: p1.Y})

	// 9 ticks of 0.02s cover 0.18s, inside the 0.2s cooldown window.
	for i := 0; i < 9; i++ {
		e.Update(0.02)
	}
	if len(e.projectiles) != 1 {
		t.Errorf("Expected exactly 1 projectile inside cooldown window, got %d", len(e.projectiles))
	}

	// Three more ticks push past 0.2s and allow a second shot.
	for i := 0; i < 3; i++ {
		e.Update(0.02)
	}
	if len(e.projectiles) != 2 {
		t.Errorf("Expected second projectile after cooldown, got %d", len(e.projectiles))
	}
}

// TestFireRequiresEnergy tests that an empty battery produces no shot and
// deducts nothing
func TestFireRequiresEnergy(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]
	p1.Energy = 5

	e.SetInput(InputState{Fire: true, AimX: p1.X + 100, AimY: p1.Y})
	e.Update(0.02)

	if len(e.projectiles) != 0 {
		t.Errorf("Expected no projectile with energy 5, got %d", len(e.projectiles))
	}
	// The blocked shot must not touch the battery at all.
	if !almostEqual(p1.Energy, 5) {
		t.Errorf("Expected energy unchanged at 5, got %v", p1.Energy)
	}
}

// TestFireDeductsEnergy tests the energy cost of a shot
func TestFireDeductsEnergy(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]
	p1.Energy = 50

	e.SetInput(InputState{Fire: true, AimX: p1.X + 100, AimY: p1.Y})
	e.Update(0.02)

	want := 50 - FireEnergyCost
	if !almostEqual(p1.Energy, want) {
		t.Errorf("Expected energy %v, got %v", want, p1.Energy)
	}
}

// TestEnergyDoesNotRegenerate tests that idle ticks leave the battery alone;
// energy only moves through fire, boost and pickups
func TestEnergyDoesNotRegenerate(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]
	p1.Energy = 37

	e.SetInput(InputState{AimX: p1.X + 100, AimY: p1.Y})
	for i := 0; i < 50; i++ {
		e.Update(0.02)
	}

	if !almostEqual(p1.Energy, 37) {
		t.Errorf("Expected energy unchanged at 37 after idle ticks, got %v", p1.Energy)
	}
}

// TestProjectileCap tests that the pool limit suppresses further shots
func TestProjectileCap(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]

	for i := 0; i < MaxProjectiles; i++ {
		pr := NewProjectile(p1, uint64(i))
		pr.X = 400
		pr.Y = 300
		pr.VX = 0
		pr.VY = 0
		e.projectiles = append(e.projectiles, pr)
	}

	in := InputState{Fire: true, AimX: p1.X + 100, AimY: p1.Y}
	e.resolveInput(p1, &in, 0.02)

	if len(e.projectiles) != MaxProjectiles {
		t.Errorf("Expected projectile count pinned at %d, got %d",
			MaxProjectiles, len(e.projectiles))
	}
}

// TestBoostImpulse tests the boost applies an impulse along the heading and
// costs energy
func TestBoostImpulse(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]
	p1.Rotation = 0
	p1.Energy = 100

	in := InputState{Boost: true, AimX: p1.X + 100, AimY: p1.Y}
	e.resolveInput(p1, &in, 0.02)

	if !almostEqual(p1.VX, BoostImpulse) {
		t.Errorf("Expected VX %v after boost, got %v", BoostImpulse, p1.VX)
	}
	if !almostEqual(p1.VY, 0) {
		t.Errorf("Expected VY 0 after boost, got %v", p1.VY)
	}
	want := 100.0 - BoostEnergyCost
	if !almostEqual(p1.Energy, want) {
		t.Errorf("Expected energy %v after boost, got %v", want, p1.Energy)
	}
	if p1.BoostCooldown <= 0 {
		t.Error("Expected boost cooldown set")
	}
}

// TestBoostRequiresEnergy tests the strict energy gate for boosting
func TestBoostRequiresEnergy(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]
	p1.Rotation = 0
	p1.Energy = 10

	in := InputState{Boost: true, AimX: p1.X + 100, AimY: p1.Y}
	e.resolveInput(p1, &in, 0.02)

	if p1.VX != 0 {
		t.Errorf("Expected no impulse with low energy, got VX=%v", p1.VX)
	}
	if p1.BoostCooldown > 0 {
		t.Error("Failed boost should not start a cooldown")
	}
}

// TestBoostCooldownGate tests that an active cooldown blocks another boost
func TestBoostCooldownGate(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]
	p1.Rotation = 0
	p1.Energy = 100
	p1.BoostCooldown = 0.5

	in := InputState{Boost: true, AimX: p1.X + 100, AimY: p1.Y}
	e.resolveInput(p1, &in, 0.02)

	if p1.VX != 0 {
		t.Errorf("Expected no impulse during cooldown, got VX=%v", p1.VX)
	}
}

// TestThrustAccelerates tests forward thrust along the heading
func TestThrustAccelerates(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]
	p1.Rotation = 0

	in := InputState{Thrust: true, AimX: p1.X + 100, AimY: p1.Y}
	e.resolveInput(p1, &in, 0.02)

	want := ThrustForward * 0.02
	if !almostEqual(p1.VX, want) {
		t.Errorf("Expected VX %v after thrust, got %v", want, p1.VX)
	}
	if !p1.Thrusting {
		t.Error("Expected thrusting flag set")
	}
	if len(e.particles) == 0 {
		t.Error("Expected exhaust particles while thrusting")
	}
}

// TestReverseIsWeaker tests the asymmetric reverse thrust
func TestReverseIsWeaker(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]
	p1.Rotation = 0

	in := InputState{Reverse: true, AimX: p1.X + 100, AimY: p1.Y}
	e.resolveInput(p1, &in, 0.02)

	want := -ThrustReverse * 0.02
	if !almostEqual(p1.VX, want) {
		t.Errorf("Expected VX %v after reverse, got %v", want, p1.VX)
	}
}

// TestAimOverridesRotation tests that the pointer aim wins over the rotate
// keys every tick
func TestAimOverridesRotation(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]
	p1.X = 100
	p1.Y = 100
	p1.Rotation = 0

	in := InputState{RotateLeft: true, AimX: 200, AimY: 200}
	e.resolveInput(p1, &in, 0.02)

	want := math.Atan2(100, 100) // 45 degrees toward the aim point
	if !almostEqual(p1.Rotation, want) {
		t.Errorf("Expected rotation %v from aim override, got %v", want, p1.Rotation)
	}
}

// TestShotsFollowAim tests that a shot travels toward the aim point even
// while rotate keys are held; the keys skew thrust, never fire direction
func TestShotsFollowAim(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]
	p1.X = 100
	p1.Y = 100
	p1.Rotation = math.Pi / 2 // stale heading from a previous tick

	in := InputState{Fire: true, RotateLeft: true, AimX: 200, AimY: 100}
	e.resolveInput(p1, &in, 0.02)

	if len(e.projectiles) != 1 {
		t.Fatalf("Expected 1 projectile, got %d", len(e.projectiles))
	}
	pr := e.projectiles[0]
	if !almostEqual(pr.Rotation, 0) {
		t.Errorf("Expected shot heading 0 (toward aim), got %v", pr.Rotation)
	}
	if !almostEqual(pr.VX, ProjectileSpeed) || !almostEqual(pr.VY, 0) {
		t.Errorf("Expected shot velocity (%v, 0), got (%v, %v)", ProjectileSpeed, pr.VX, pr.VY)
	}
}

// TestResourceBounds tests that pools stay inside [0,max] under sustained
// random input
func TestResourceBounds(t *testing.T) {
	e := newTestEngine(t)
	clearField(e)
	p1 := e.players["p1"]

	for i := 0; i < 500; i++ {
		e.SetInput(InputState{
			Thrust:  e.rng.Intn(2) == 0,
			Reverse: e.rng.Intn(3) == 0,
			Boost:   e.rng.Intn(4) == 0,
			Fire:    e.rng.Intn(2) == 0,
			AimX:    e.rng.Float64() * 800,
			AimY:    e.rng.Float64() * 600,
		})
		e.Update(0.016)

		if p1.Energy < 0 || p1.Energy > p1.MaxEnergy {
			t.Fatalf("Energy out of bounds at tick %d: %v", i, p1.Energy)
		}
		if p1.Health < 0 || p1.Health > p1.MaxHealth {
			t.Fatalf("Health out of bounds at tick %d: %v", i, p1.Health)
		}
		if p1.Shield < 0 || p1.Shield > p1.MaxShield {
			t.Fatalf("Shield out of bounds at tick %d: %v", i, p1.Shield)
		}
	}
}
