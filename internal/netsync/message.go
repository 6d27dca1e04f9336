// Package netsync carries per-tick ship state between the two participants
// over a single WebSocket. The wire surface is deliberately tiny: each side
// publishes only its own ship, merges the opponent's, and treats anything
// malformed as absent.
package netsync

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hectar-glitches/bluetooth-game/internal/game"
)

// Message types on the peer channel.
const (
	MsgHello        = "hello"        // handshake, announces the sender's player id
	MsgPlayerUpdate = "playerUpdate" // per-tick authoritative ship state
	MsgPing         = "ping"         // keep-alive, carries no state
)

var (
	ErrUnknownType  = errors.New("netsync: unknown message type")
	ErrMissingID    = errors.New("netsync: message missing player id")
	ErrBadPosition  = errors.New("netsync: position absent or not finite")
	ErrBadResources = errors.New("netsync: resource fields not finite")
)

// Position is the nested coordinate pair on the wire.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Message is the single envelope shared by all peer traffic. Fields beyond
// Type and PlayerID are only meaningful for playerUpdate.
type Message struct {
	Type      string    `json:"type"`
	PlayerID  string    `json:"playerId"`
	Position  *Position `json:"position,omitempty"`
	Rotation  float64   `json:"rotation,omitempty"`
	Health    float64   `json:"health,omitempty"`
	Shield    float64   `json:"shield,omitempty"`
	Energy    float64   `json:"energy,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// NewUpdateMessage wraps an engine state update for the wire.
func NewUpdateMessage(u game.StateUpdate) Message {
	return Message{
		Type:      MsgPlayerUpdate,
		PlayerID:  u.PlayerID,
		Position:  &Position{X: u.X, Y: u.Y},
		Rotation:  u.Rotation,
		Health:    u.Health,
		Shield:    u.Shield,
		Energy:    u.Energy,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewHelloMessage builds the handshake announcing the local player id.
func NewHelloMessage(playerID string) Message {
	return Message{Type: MsgHello, PlayerID: playerID, Timestamp: time.Now().UnixMilli()}
}

// NewPingMessage builds a keep-alive.
func NewPingMessage(playerID string) Message {
	return Message{Type: MsgPing, PlayerID: playerID, Timestamp: time.Now().UnixMilli()}
}

// Decode parses and validates one wire frame. A malformed frame returns an
// error and must be dropped by the caller; it never aborts the connection.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("netsync: decode: %w", err)
	}

	switch msg.Type {
	case MsgHello, MsgPing:
		if msg.PlayerID == "" {
			return Message{}, ErrMissingID
		}
		return msg, nil
	case MsgPlayerUpdate:
		if msg.PlayerID == "" {
			return Message{}, ErrMissingID
		}
		if msg.Position == nil || !finite(msg.Position.X) || !finite(msg.Position.Y) {
			return Message{}, ErrBadPosition
		}
		if !finite(msg.Rotation) || !finite(msg.Health) || !finite(msg.Shield) || !finite(msg.Energy) {
			return Message{}, ErrBadResources
		}
		return msg, nil
	default:
		return Message{}, ErrUnknownType
	}
}

// StateUpdate converts a validated playerUpdate into engine form.
func (m Message) StateUpdate() game.StateUpdate {
	return game.StateUpdate{
		PlayerID: m.PlayerID,
		X:        m.Position.X,
		Y:        m.Position.Y,
		Rotation: m.Rotation,
		Health:   m.Health,
		Shield:   m.Shield,
		Energy:   m.Energy,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
