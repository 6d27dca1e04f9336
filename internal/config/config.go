// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for arena, match and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// ARENA CONFIGURATION
// =============================================================================

// ArenaConfig holds the playfield dimensions and population. Width and
// Height double as the render target size.
type ArenaConfig struct {
	Width         int   // Arena/frame width in pixels
	Height        int   // Arena/frame height in pixels
	PowerUpCount  int   // Pads spawned at match start
	AsteroidCount int   // Rocks spawned once per session
	TickRate      int   // Simulation ticks per second
	Seed          int64 // RNG seed, 0 means time-based
}

// DefaultArena returns the default arena configuration.
func DefaultArena() ArenaConfig {
	return ArenaConfig{
		Width:         800,
		Height:        600,
		PowerUpCount:  6,
		AsteroidCount: 8,
		TickRate:      60,
	}
}

// ArenaFromEnv returns arena configuration with environment variable
// overrides. Environment variables take precedence over defaults.
func ArenaFromEnv() ArenaConfig {
	cfg := DefaultArena()

	if w := getEnvInt("ARENA_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("ARENA_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if n := getEnvInt("ARENA_POWERUPS", 0); n > 0 {
		cfg.PowerUpCount = n
	}
	if n := getEnvInt("ARENA_ASTEROIDS", 0); n > 0 {
		cfg.AsteroidCount = n
	}
	if t := getEnvInt("ARENA_TICK_RATE", 0); t > 0 {
		cfg.TickRate = t
	}
	if s := getEnvInt("ARENA_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}

	return cfg
}

// =============================================================================
// MATCH CONFIGURATION
// =============================================================================

// MatchConfig holds the session rules.
type MatchConfig struct {
	DurationSeconds float64 // Match clock limit
	ScoreLimit      int     // First to this score wins immediately
}

// DefaultMatch returns the default match configuration.
func DefaultMatch() MatchConfig {
	return MatchConfig{
		DurationSeconds: 300,
		ScoreLimit:      1000,
	}
}

// MatchFromEnv returns match configuration with environment variable overrides.
func MatchFromEnv() MatchConfig {
	cfg := DefaultMatch()

	if d := getEnvFloat("MATCH_DURATION", 0); d > 0 {
		cfg.DurationSeconds = d
	}
	if s := getEnvInt("MATCH_SCORE_LIMIT", 0); s > 0 {
		cfg.ScoreLimit = s
	}

	return cfg
}

// =============================================================================
// PEER CONFIGURATION
// =============================================================================

// PeerConfig holds the state-sync transport settings.
// Role decides who runs the simulation session: the host emits per-tick
// state, the client merges it.
type PeerConfig struct {
	Role     string // "host" or "client"
	PlayerID string // Local participant id
	Listen   string // Host: peer listen address
	HostURL  string // Client: ws:// URL of the host's peer endpoint
}

// DefaultPeer returns the default peer configuration.
func DefaultPeer() PeerConfig {
	return PeerConfig{
		Role:     "host",
		PlayerID: "player-1",
		Listen:   ":4000",
		HostURL:  "ws://localhost:4000/peer",
	}
}

// PeerFromEnv returns peer configuration with environment variable overrides.
func PeerFromEnv() PeerConfig {
	cfg := DefaultPeer()

	if r := os.Getenv("PEER_ROLE"); r != "" {
		cfg.Role = r
	}
	if id := os.Getenv("PLAYER_ID"); id != "" {
		cfg.PlayerID = id
	} else if cfg.Role == "client" {
		cfg.PlayerID = "player-2"
	}
	if l := os.Getenv("PEER_LISTEN"); l != "" {
		cfg.Listen = l
	}
	if u := os.Getenv("PEER_HOST_URL"); u != "" {
		cfg.HostURL = u
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds control API server settings.
type ServerConfig struct {
	Port         int
	EventLogPath string // JSONL match journal, empty disables file output
	DebugServer  bool   // pprof + metrics on localhost:6060
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:         3000,
		EventLogPath: "events.jsonl",
		DebugServer:  true,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if path := os.Getenv("EVENT_LOG_PATH"); path != "" {
		cfg.EventLogPath = path
	}
	if os.Getenv("EVENT_LOG_DISABLED") == "true" {
		cfg.EventLogPath = ""
	}
	if os.Getenv("DEBUG_SERVER") == "false" {
		cfg.DebugServer = false
	}

	return cfg
}

// =============================================================================
// AUDIO CONFIGURATION
// =============================================================================

// AudioConfig holds cue playback settings.
type AudioConfig struct {
	Enabled bool
}

// DefaultAudio returns the default audio configuration.
func DefaultAudio() AudioConfig {
	return AudioConfig{Enabled: true}
}

// AudioFromEnv returns audio configuration with environment variable overrides.
func AudioFromEnv() AudioConfig {
	cfg := DefaultAudio()

	if os.Getenv("AUDIO_ENABLED") == "false" {
		cfg.Enabled = false
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Arena  ArenaConfig
	Match  MatchConfig
	Peer   PeerConfig
	Server ServerConfig
	Audio  AudioConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Arena:  ArenaFromEnv(),
		Match:  MatchFromEnv(),
		Peer:   PeerFromEnv(),
		Server: ServerFromEnv(),
		Audio:  AudioFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
