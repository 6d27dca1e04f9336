package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

// Match rules.
const (
	DefaultMatchDuration = 300.0 // seconds
	DefaultScoreLimit    = 1000
	DefaultPowerUpCount  = 6
	DefaultAsteroidCount = 8
	DefaultTickRate      = 60

	// maxDeltaTime clamps wall-clock gaps (debugger pauses, laptop sleep)
	// so a single tick never teleports entities across the arena.
	maxDeltaTime = 0.1
)

// ErrNoSurface is returned when the engine is constructed without arena
// dimensions. The engine never draws, but boundary logic is meaningless
// without a drawable surface to take its bounds from, so this is fatal at
// construction rather than silently degraded.
var ErrNoSurface = errors.New("game: drawable surface with positive dimensions required")

// Config sizes the arena and the match rules.
type Config struct {
	Width, Height float64
	PowerUpCount  int
	AsteroidCount int
	MatchDuration float64 // seconds
	ScoreLimit    int
	TickRate      int
	Seed          int64 // 0 means time-based
}

// StateUpdate is a decoded peer state message: the authoritative fields one
// participant publishes about its own ship. Transport framing lives in
// netsync; the engine only ever sees this struct.
type StateUpdate struct {
	PlayerID string
	X, Y     float64
	Rotation float64
	Health   float64
	Shield   float64
	Energy   float64
}

// Engine owns every entity and runs the fixed pipeline once per tick:
// input → physics → collision → powerup/hazard lifecycle → particle cleanup
// → outbound network emission. All mutation happens synchronously inside
// Update under one lock; the only asynchronous boundary is the inbound
// update queue, drained atomically at the start of the next tick.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	localID string
	host    bool

	players     map[string]*Player
	projectiles []*Projectile
	powerUps    []*PowerUp
	asteroids   []*Asteroid
	particles   []*Particle

	input InputState

	started           bool
	elapsed           float64
	tickCount         uint64
	powerUpsCollected int

	rng *rand.Rand

	// pending buffers inbound remote updates between ticks so a tick never
	// observes a half-applied update.
	pendingMu sync.Mutex
	pending   []StateUpdate

	// sendUpdate is the outbound network sink, host role only.
	sendUpdate func(StateUpdate)

	snapshots *SnapshotPool
	eventLog  *EventLog

	// TickObserver, when set, receives the wall-clock cost of each tick
	// (wired to metrics by the caller; the engine itself stays metric-free).
	TickObserver func(time.Duration)

	// Event callbacks for external collaborators (audio cues, kill feeds).
	// Invoked on their own goroutines so the tick never blocks on a
	// consumer.
	OnFire   func(playerID string)
	OnHit    func(victimID string)
	OnKill   func(killerID, victimID string)
	OnPickup func(playerID string, typ PowerUpType)
	OnBoost  func(playerID string)

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewEngine builds an engine for the given arena. The dimensions come from
// the host's render target; without them boundary logic cannot run, so zero
// or negative dimensions are a construction error.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrNoSurface
	}
	if cfg.PowerUpCount <= 0 {
		cfg.PowerUpCount = DefaultPowerUpCount
	}
	if cfg.AsteroidCount <= 0 {
		cfg.AsteroidCount = DefaultAsteroidCount
	}
	if cfg.MatchDuration <= 0 {
		cfg.MatchDuration = DefaultMatchDuration
	}
	if cfg.ScoreLimit <= 0 {
		cfg.ScoreLimit = DefaultScoreLimit
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Engine{
		cfg:         cfg,
		players:     make(map[string]*Player, 2),
		projectiles: make([]*Projectile, 0, MaxProjectiles),
		particles:   make([]*Particle, 0, MaxParticles),
		rng:         rand.New(rand.NewSource(seed)),
		snapshots:   NewSnapshotPool(),
		eventLog:    NewEventLog(),
		stopChan:    make(chan struct{}),
	}, nil
}

// InitializeAsHost registers the local player and takes the host role:
// this side emits outbound state every tick.
func (e *Engine) InitializeAsHost(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.host = true
	e.initializeLocal(id, e.cfg.Width*0.25, e.cfg.Height*0.5)
}

// InitializeAsClient registers the local player in the client role. The
// client never emits per-tick state; it only merges the host's updates.
func (e *Engine) InitializeAsClient(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.host = false
	e.initializeLocal(id, e.cfg.Width*0.75, e.cfg.Height*0.5)
}

func (e *Engine) initializeLocal(id string, x, y float64) {
	e.localID = id
	e.players[id] = NewPlayer(id, x, y)
	log.Printf("🚀 Local ship registered: %s", id)
}

// RegisterRemote creates the opposing participant's ship. Called by the
// transport once the handshake reveals the peer's id; inbound state updates
// for ids that were never registered are ignored, not created.
func (e *Engine) RegisterRemote(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == e.localID {
		return
	}
	if _, ok := e.players[id]; ok {
		return
	}
	x := e.cfg.Width * 0.75
	if !e.host {
		x = e.cfg.Width * 0.25
	}
	e.players[id] = NewPlayer(id, x, e.cfg.Height*0.5)
	e.eventLog.EmitSimple(EventTypeJoin, e.tickCount, id,
		JoinPayload{PlayerID: id, SpawnX: x, SpawnY: e.cfg.Height * 0.5})
	log.Printf("🛰️ Remote ship registered: %s", id)
}

// StartGame spawns the field (powerups and asteroids), zeroes the match
// clock and opens the session for ticking. Asteroids are created exactly
// once per session; a later reset leaves them in place.
func (e *Engine) StartGame() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.asteroids) == 0 {
		e.asteroids = make([]*Asteroid, 0, e.cfg.AsteroidCount)
		for i := 0; i < e.cfg.AsteroidCount; i++ {
			e.asteroids = append(e.asteroids, NewAsteroid(i, e.rng, e.cfg.Width, e.cfg.Height))
		}
	}
	e.spawnPowerUps()

	e.elapsed = 0
	e.powerUpsCollected = 0
	e.started = true
	log.Printf("🎮 Match started: %dx%d arena, %d powerups, %d asteroids",
		int(e.cfg.Width), int(e.cfg.Height), len(e.powerUps), len(e.asteroids))
}

func (e *Engine) spawnPowerUps() {
	e.powerUps = make([]*PowerUp, 0, e.cfg.PowerUpCount)
	for i := 0; i < e.cfg.PowerUpCount; i++ {
		e.powerUps = append(e.powerUps, NewPowerUp(i, e.rng, e.cfg.Width, e.cfg.Height))
	}
}

// ResetGame reinitializes players, projectiles and particles and regenerates
// the powerups. Asteroids survive a reset. All respawn countdowns die here
// synchronously: there are no timer goroutines to orphan, the countdowns
// are plain fields replaced along with their owners.
func (e *Engine) ResetGame() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.players {
		p.Respawn(e.rng.Float64()*e.cfg.Width, e.rng.Float64()*e.cfg.Height)
		p.Score = 0
		p.Kills = 0
		p.Deaths = 0
	}
	e.projectiles = e.projectiles[:0]
	e.particles = e.particles[:0]
	e.spawnPowerUps()

	e.elapsed = 0
	e.powerUpsCollected = 0
	log.Println("🔄 Match reset")
}

// Finished reports the terminal condition: the match clock has run out or
// either score reached the limit. This is a query, not a transition; the
// caller decides what to do with a finished match.
func (e *Engine) Finished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finishedLocked()
}

func (e *Engine) finishedLocked() bool {
	if e.elapsed > e.cfg.MatchDuration {
		return true
	}
	for _, p := range e.players {
		if p.Score >= e.cfg.ScoreLimit {
			return true
		}
	}
	return false
}

// SetInput replaces the held-intent set applied to the local ship on the
// next tick.
func (e *Engine) SetInput(in InputState) {
	e.mu.Lock()
	e.input = in
	e.mu.Unlock()
}

// SetUpdateSink installs the outbound network callback. It is invoked once
// per tick, host role only, with the local player's authoritative state.
func (e *Engine) SetUpdateSink(fn func(StateUpdate)) {
	e.mu.Lock()
	e.sendUpdate = fn
	e.mu.Unlock()
}

// EnqueueRemoteUpdate buffers an inbound peer update for application at the
// start of the next tick. Safe to call from any goroutine at any time.
func (e *Engine) EnqueueRemoteUpdate(u StateUpdate) {
	e.pendingMu.Lock()
	e.pending = append(e.pending, u)
	e.pendingMu.Unlock()
}

// applyPending merges buffered remote updates into the store. Local
// authority: an update naming the local player is dropped, since each
// participant is the sole writer of its own ship. Unknown ids are ignored.
func (e *Engine) applyPending() {
	e.pendingMu.Lock()
	pending := e.pending
	e.pending = nil
	e.pendingMu.Unlock()

	for _, u := range pending {
		if u.PlayerID == e.localID {
			continue
		}
		p, ok := e.players[u.PlayerID]
		if !ok {
			continue
		}
		p.X = u.X
		p.Y = u.Y
		p.Rotation = u.Rotation
		p.Health = u.Health
		p.Shield = u.Shield
		p.Energy = u.Energy
		p.clampResources()
	}
}

// Start drives the engine from wall-clock time at the configured tick rate.
// deltaTime is the measured elapsed time between ticks, not the nominal
// interval, so a stalled frame slows the world instead of skipping it.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))

	go func() {
		last := time.Now()
		for {
			select {
			case <-e.ticker.C:
				now := time.Now()
				dt := now.Sub(last).Seconds()
				last = now
				if dt > maxDeltaTime {
					dt = maxDeltaTime
				}
				e.Update(dt)
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("⚙️ Engine loop started at %d TPS", e.cfg.TickRate)
}

// Stop halts the tick loop. Safe to call twice.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Engine loop stopped")
}

// Update advances the simulation by dt seconds. Exposed so tests (and
// replay tooling) can drive ticks directly without the wall-clock loop.
func (e *Engine) Update(dt float64) {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	e.tickCount++
	e.applyPending()

	if local, ok := e.players[e.localID]; ok {
		e.resolveInput(local, &e.input, dt)
	}

	e.updatePhysics(dt)
	e.resolveCollisions()
	e.updatePowerUps(dt)
	e.updateParticles(dt)
	e.emitOutbound()

	e.elapsed += dt
	e.eventLog.EmitSimple(EventTypeTick, e.tickCount, "",
		TickPayload{Elapsed: e.elapsed, Projectiles: len(e.projectiles), DeltaTimeNs: int64(dt * 1e9)})

	e.publishSnapshot()

	if e.TickObserver != nil {
		e.TickObserver(time.Since(start))
	}
}

// updatePhysics integrates every entity class with its own boundary policy.
// Projectiles that expire or exit the field are compacted out in place,
// without splicing while iterating.
func (e *Engine) updatePhysics(dt float64) {
	for _, p := range e.players {
		p.updatePhysics(dt, e.cfg.Width, e.cfg.Height)
	}
	for _, a := range e.asteroids {
		a.update(dt, e.cfg.Width, e.cfg.Height)
	}

	n := 0
	for _, pr := range e.projectiles {
		if pr.update(dt, e.cfg.Width, e.cfg.Height) {
			e.projectiles[n] = pr
			n++
		}
	}
	e.projectiles = e.projectiles[:n]
}

// resolveCollisions runs the pairwise distance checks exactly once per tick.
// Two participants and a few dozen shots never justify a broad phase; the
// O(players×projectiles + players×powerups + projectiles×asteroids) scans
// are the whole story.
func (e *Engine) resolveCollisions() {
	// Projectiles against players, then asteroids. A consumed projectile
	// is dropped immediately and takes part in no further checks this tick.
	n := 0
	for _, pr := range e.projectiles {
		if e.projectileHits(pr) {
			continue
		}
		e.projectiles[n] = pr
		n++
	}
	e.projectiles = e.projectiles[:n]

	for _, p := range e.players {
		for _, pu := range e.powerUps {
			if !pu.Active {
				continue
			}
			if distance(p.X, p.Y, pu.X, pu.Y) < PowerUpPickupRadius {
				e.collectPowerUp(p, pu)
			}
		}
	}
}

// projectileHits resolves one projectile against players and asteroids,
// returning true when the projectile is consumed.
func (e *Engine) projectileHits(pr *Projectile) bool {
	for _, p := range e.players {
		if p.ID == pr.OwnerID {
			continue // no self-damage
		}
		if distance(pr.X, pr.Y, p.X, p.Y) >= PlayerHitRadius {
			continue
		}
		e.emitBurst(p.X, p.Y, HitParticles, ColorHit, 90)
		e.eventLog.EmitSimple(EventTypeHit, e.tickCount, pr.OwnerID,
			HitPayload{ShooterID: pr.OwnerID, VictimID: p.ID, Damage: pr.Damage, Health: p.Health})
		if e.OnHit != nil {
			go e.OnHit(p.ID)
		}

		if p.ApplyDamage(pr.Damage) {
			e.killPlayer(p, pr.OwnerID)
		}
		p.clampResources()
		return true
	}

	for _, a := range e.asteroids {
		if distance(pr.X, pr.Y, a.X, a.Y) < a.Size {
			// The rock wins. Always.
			e.emitBurst(pr.X, pr.Y, ExplosionParticles, ColorExplosion, 140)
			return true
		}
	}
	return false
}

// killPlayer handles a lethal hit: the victim soft-respawns (restored and
// relocated, never removed) and the shooter is credited. A victim respawned
// here takes any later hits in the same tick on its respawned state.
func (e *Engine) killPlayer(victim *Player, shooterID string) {
	victim.Deaths++
	e.emitBurst(victim.X, victim.Y, ExplosionParticles, ColorDeathExplosion, 160)
	victim.Respawn(e.rng.Float64()*e.cfg.Width, e.rng.Float64()*e.cfg.Height)

	if shooter, ok := e.players[shooterID]; ok {
		shooter.Kills++
		shooter.Score += KillScore
	}

	e.eventLog.EmitSimple(EventTypeKill, e.tickCount, shooterID,
		KillPayload{KillerID: shooterID, VictimID: victim.ID, VictimDeaths: victim.Deaths})
	e.eventLog.EmitSimple(EventTypeRespawn, e.tickCount, victim.ID,
		RespawnPayload{PlayerID: victim.ID, X: victim.X, Y: victim.Y})
	log.Printf("💥 %s destroyed by %s", victim.ID, shooterID)

	if e.OnKill != nil {
		go e.OnKill(shooterID, victim.ID)
	}
}

// collectPowerUp applies a pad's effect to the collector and schedules the
// pad's respawn. Collecting is idempotent per activation: the pad flips
// inactive here and inactive pads are skipped by the collision pass.
func (e *Engine) collectPowerUp(p *Player, pu *PowerUp) {
	switch pu.Type {
	case PowerUpHealth:
		p.Health = clamp(p.Health+pu.Value, 0, p.MaxHealth)
	case PowerUpShield:
		p.Shield = clamp(p.Shield+pu.Value, 0, p.MaxShield)
	case PowerUpEnergy:
		p.Energy = clamp(p.Energy+pu.Value, 0, p.MaxEnergy)
	case PowerUpWeapon:
		p.Score += int(pu.Value)
	}
	pu.collect(e.rng)
	e.powerUpsCollected++

	e.emitBurst(pu.X, pu.Y, PickupParticles, PowerUpColors[pu.Type], 100)
	e.eventLog.EmitSimple(EventTypePickup, e.tickCount, p.ID,
		PickupPayload{PlayerID: p.ID, Type: string(pu.Type), Value: pu.Value})

	if e.OnPickup != nil {
		go e.OnPickup(p.ID, pu.Type)
	}
}

func (e *Engine) updatePowerUps(dt float64) {
	for _, pu := range e.powerUps {
		pu.update(dt, e.rng, e.cfg.Width, e.cfg.Height)
	}
}

// updateParticles integrates and lazily purges expired particles in place.
func (e *Engine) updateParticles(dt float64) {
	n := 0
	for _, pt := range e.particles {
		if pt.update(dt) {
			e.particles[n] = pt
			n++
		}
	}
	e.particles = e.particles[:n]
}

// emitOutbound publishes the local ship's authoritative state, host role
// only, once per tick.
func (e *Engine) emitOutbound() {
	if !e.host || e.sendUpdate == nil {
		return
	}
	p, ok := e.players[e.localID]
	if !ok {
		return
	}
	e.sendUpdate(StateUpdate{
		PlayerID: p.ID,
		X:        p.X,
		Y:        p.Y,
		Rotation: p.Rotation,
		Health:   p.Health,
		Shield:   p.Shield,
		Energy:   p.Energy,
	})
}

// LocalID returns the locally controlled player's id.
func (e *Engine) LocalID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.localID
}

// Player returns a ship by id, or nil when absent. Absent ids are an
// expected race (not-yet-synced remote), never an error.
func (e *Engine) Player(id string) *Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.players[id]
}

// StartEventLog begins journaling events to a JSONL file.
func (e *Engine) StartEventLog(path string) error {
	return e.eventLog.Start(path)
}

// StopEventLog flushes and closes the journal.
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// EventLogStats exposes journal counters for monitoring.
func (e *Engine) EventLogStats() map[string]interface{} {
	return e.eventLog.Stats()
}

func (e *Engine) String() string {
	return fmt.Sprintf("Engine(local=%s host=%v players=%d)", e.localID, e.host, len(e.players))
}
