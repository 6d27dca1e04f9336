package game

import (
	"sync/atomic"
	"time"
)

// PlayerSnapshot is an immutable copy of ship state for rendering.
// Value types only, no pointers back into the live store.
type PlayerSnapshot struct {
	ID        string
	X, Y      float64
	Rotation  float64
	Health    float64
	MaxHealth float64
	Shield    float64
	MaxShield float64
	Energy    float64
	MaxEnergy float64
	Score     int
	Kills     int
	Deaths    int
	Thrusting bool
	Local     bool
}

// ProjectileSnapshot is an immutable shot for rendering.
type ProjectileSnapshot struct {
	X, Y     float64
	Rotation float64
}

// PowerUpSnapshot is an immutable pad for rendering. Inactive pads are not
// included in a snapshot at all.
type PowerUpSnapshot struct {
	X, Y  float64
	Type  PowerUpType
	Color string
}

// AsteroidSnapshot is an immutable rock for rendering.
type AsteroidSnapshot struct {
	X, Y     float64
	Size     float64
	Rotation float64
}

// ParticleSnapshot is an immutable particle for rendering.
type ParticleSnapshot struct {
	X, Y  float64
	Color string
	Size  float64
	Alpha float64
}

// ArenaSnapshot is a complete immutable view of one tick, safe to read
// while the engine keeps ticking.
type ArenaSnapshot struct {
	Sequence  uint64
	Timestamp time.Time
	Tick      uint64
	Elapsed   float64
	Width     float64
	Height    float64

	Players     []PlayerSnapshot
	Projectiles []ProjectileSnapshot
	PowerUps    []PowerUpSnapshot
	Asteroids   []AsteroidSnapshot
	Particles   []ParticleSnapshot
}

// SnapshotPool triple-buffers snapshots for a lock-free producer/consumer
// pair: the tick loop writes, the renderer reads, neither ever waits. The
// reader may observe the same snapshot twice or skip one; it never observes
// a half-written one.
type SnapshotPool struct {
	snapshots [3]ArenaSnapshot
	writeIdx  uint32 // atomic, producer only
	readIdx   uint32 // atomic
	sequence  uint64 // atomic
}

// NewSnapshotPool pre-allocates all three buffers so steady-state snapshot
// production never allocates.
func NewSnapshotPool() *SnapshotPool {
	pool := &SnapshotPool{}
	for i := 0; i < 3; i++ {
		pool.snapshots[i] = ArenaSnapshot{
			Players:     make([]PlayerSnapshot, 0, 2),
			Projectiles: make([]ProjectileSnapshot, 0, MaxProjectiles),
			PowerUps:    make([]PowerUpSnapshot, 0, DefaultPowerUpCount),
			Asteroids:   make([]AsteroidSnapshot, 0, DefaultAsteroidCount),
			Particles:   make([]ParticleSnapshot, 0, MaxParticles),
		}
	}
	return pool
}

// AcquireWrite returns the next write slot with slices reset but capacity
// preserved. Producer only.
func (p *SnapshotPool) AcquireWrite() *ArenaSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Players = snap.Players[:0]
	snap.Projectiles = snap.Projectiles[:0]
	snap.PowerUps = snap.PowerUps[:0]
	snap.Asteroids = snap.Asteroids[:0]
	snap.Particles = snap.Particles[:0]

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite makes the just-filled slot visible to readers.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest complete snapshot.
func (p *SnapshotPool) AcquireRead() *ArenaSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// publishSnapshot copies current world state into the pool. Called at the
// end of each tick with the engine lock held.
func (e *Engine) publishSnapshot() {
	snap := e.snapshots.AcquireWrite()
	snap.Tick = e.tickCount
	snap.Elapsed = e.elapsed
	snap.Width = e.cfg.Width
	snap.Height = e.cfg.Height

	for _, p := range e.players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:        p.ID,
			X:         p.X,
			Y:         p.Y,
			Rotation:  p.Rotation,
			Health:    p.Health,
			MaxHealth: p.MaxHealth,
			Shield:    p.Shield,
			MaxShield: p.MaxShield,
			Energy:    p.Energy,
			MaxEnergy: p.MaxEnergy,
			Score:     p.Score,
			Kills:     p.Kills,
			Deaths:    p.Deaths,
			Thrusting: p.Thrusting,
			Local:     p.ID == e.localID,
		})
	}
	for _, pr := range e.projectiles {
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			X: pr.X, Y: pr.Y, Rotation: pr.Rotation,
		})
	}
	for _, pu := range e.powerUps {
		if !pu.Active {
			continue
		}
		snap.PowerUps = append(snap.PowerUps, PowerUpSnapshot{
			X: pu.X, Y: pu.Y, Type: pu.Type, Color: PowerUpColors[pu.Type],
		})
	}
	for _, a := range e.asteroids {
		snap.Asteroids = append(snap.Asteroids, AsteroidSnapshot{
			X: a.X, Y: a.Y, Size: a.Size, Rotation: a.Rotation,
		})
	}
	for _, pt := range e.particles {
		alpha := 0.0
		if pt.MaxLife > 0 {
			alpha = pt.Life / pt.MaxLife
		}
		snap.Particles = append(snap.Particles, ParticleSnapshot{
			X: pt.X, Y: pt.Y, Color: pt.Color, Size: pt.Size, Alpha: alpha,
		})
	}

	e.snapshots.PublishWrite()
}

// Snapshot returns the latest published snapshot for renderers and the
// state endpoint.
func (e *Engine) Snapshot() *ArenaSnapshot {
	return e.snapshots.AcquireRead()
}
