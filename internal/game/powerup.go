package game

import (
	"fmt"
	"math/rand"
)

// PowerUpType selects the effect applied on collection.
type PowerUpType string

const (
	PowerUpHealth PowerUpType = "health"
	PowerUpShield PowerUpType = "shield"
	PowerUpEnergy PowerUpType = "energy"
	PowerUpWeapon PowerUpType = "weapon"
)

// PowerUp tuning.
const (
	PowerUpPickupRadius = 25.0

	// Respawn delay is uniform in [PowerUpRespawnMin, PowerUpRespawnMax).
	PowerUpRespawnMin = 10.0
	PowerUpRespawnMax = 20.0
)

var powerUpTypes = []PowerUpType{PowerUpHealth, PowerUpShield, PowerUpEnergy, PowerUpWeapon}

// powerUpValues is the effect magnitude per type. The weapon type has no
// resource to raise; its value is credited straight to score.
var powerUpValues = map[PowerUpType]float64{
	PowerUpHealth: 25,
	PowerUpShield: 25,
	PowerUpEnergy: 50,
	PowerUpWeapon: 50,
}

// PowerUpColors keys pickup particles and rendering by type.
var PowerUpColors = map[PowerUpType]string{
	PowerUpHealth: "#4caf50",
	PowerUpShield: "#2196f3",
	PowerUpEnergy: "#ffeb3b",
	PowerUpWeapon: "#e91e63",
}

// PowerUp is a collectible pad. It lives for the whole session: collection
// only toggles it inactive until its respawn countdown elapses, then it
// reactivates at a fresh random position.
type PowerUp struct {
	Entity

	Type        PowerUpType `json:"type"`
	Value       float64     `json:"value"`
	RespawnTime float64     `json:"-"` // countdown while inactive, seconds
}

// NewPowerUp creates an active pad of a random type at a random position.
func NewPowerUp(idx int, rng *rand.Rand, width, height float64) *PowerUp {
	typ := powerUpTypes[rng.Intn(len(powerUpTypes))]
	return &PowerUp{
		Entity: Entity{
			ID:     fmt.Sprintf("powerup_%d", idx),
			X:      rng.Float64() * width,
			Y:      rng.Float64() * height,
			Active: true,
		},
		Type:  typ,
		Value: powerUpValues[typ],
	}
}

// collect deactivates the pad and schedules its respawn.
func (pu *PowerUp) collect(rng *rand.Rand) {
	pu.Active = false
	pu.RespawnTime = PowerUpRespawnMin + rng.Float64()*(PowerUpRespawnMax-PowerUpRespawnMin)
}

// update counts down the respawn timer while inactive and reactivates the
// pad at a new random position once it elapses.
func (pu *PowerUp) update(dt float64, rng *rand.Rand, width, height float64) {
	if pu.Active {
		return
	}
	pu.RespawnTime -= dt
	if pu.RespawnTime <= 0 {
		pu.RespawnTime = 0
		pu.Active = true
		pu.X = rng.Float64() * width
		pu.Y = rng.Float64() * height
	}
}
