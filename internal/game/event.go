package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick
	EventTypeJoin
	EventTypeFire
	EventTypeHit
	EventTypeKill
	EventTypeRespawn
	EventTypePickup
	EventTypeBoost
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core record written to the match journal.
type Event struct {
	Version   uint8     `json:"version"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence
	TickNum   uint64    `json:"tickNum"`
	PlayerID  string    `json:"playerId"` // Source player (for rate limiting)
	Payload   []byte    `json:"payload"`  // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeJoin:
		return "join"
	case EventTypeFire:
		return "fire"
	case EventTypeHit:
		return "hit"
	case EventTypeKill:
		return "kill"
	case EventTypeRespawn:
		return "respawn"
	case EventTypePickup:
		return "pickup"
	case EventTypeBoost:
		return "boost"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// TickPayload marks a tick boundary for replay alignment.
type TickPayload struct {
	Elapsed     float64 `json:"elapsed"`
	Projectiles int     `json:"projectiles"`
	DeltaTimeNs int64   `json:"deltaTimeNs"`
}

// FirePayload records a shot leaving the barrel.
type FirePayload struct {
	PlayerID     string  `json:"playerId"`
	ProjectileID string  `json:"projectileId"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}

// HitPayload records a projectile landing on a ship.
type HitPayload struct {
	ShooterID string  `json:"shooterId"`
	VictimID  string  `json:"victimId"`
	Damage    float64 `json:"damage"`
	Health    float64 `json:"victimHealth"` // health before the damage landed
}

// KillPayload records a lethal hit and the credit it earned.
type KillPayload struct {
	KillerID     string `json:"killerId"`
	VictimID     string `json:"victimId"`
	VictimDeaths int    `json:"victimDeaths"`
}

// RespawnPayload records where a defeated ship came back.
type RespawnPayload struct {
	PlayerID string  `json:"playerId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// PickupPayload records a powerup collection.
type PickupPayload struct {
	PlayerID string  `json:"playerId"`
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
}

// BoostPayload records a boost impulse and the energy left afterward.
type BoostPayload struct {
	PlayerID string  `json:"playerId"`
	Energy   float64 `json:"energy"`
}

// JoinPayload records a participant entering the session.
type JoinPayload struct {
	PlayerID string  `json:"playerId"`
	SpawnX   float64 `json:"spawnX"`
	SpawnY   float64 `json:"spawnY"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, playerID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		PlayerID:  playerID,
		Payload:   EncodePayload(payload),
	}
}
