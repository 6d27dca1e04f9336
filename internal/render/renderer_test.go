package render

import (
	"image/color"
	"testing"

	"github.com/hectar-glitches/bluetooth-game/internal/game"
)

// TestNewRendererValidation tests dimension checks
func TestNewRendererValidation(t *testing.T) {
	if _, err := NewRenderer(0, 600); err != ErrBadDimensions {
		t.Errorf("Expected ErrBadDimensions for zero width, got %v", err)
	}
	if _, err := NewRenderer(800, -10); err != ErrBadDimensions {
		t.Errorf("Expected ErrBadDimensions for negative height, got %v", err)
	}
	if _, err := NewRenderer(800, 600); err != nil {
		t.Errorf("Expected valid renderer, got %v", err)
	}
}

// TestRenderFrameProducesImage tests a full frame render of a busy snapshot
func TestRenderFrameProducesImage(t *testing.T) {
	r, err := NewRenderer(800, 600)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	snap := &game.ArenaSnapshot{
		Width:   800,
		Height:  600,
		Elapsed: 75,
		Players: []game.PlayerSnapshot{
			{ID: "p1", X: 200, Y: 300, Health: 80, MaxHealth: 100,
				Shield: 25, MaxShield: 50, Energy: 60, MaxEnergy: 100,
				Thrusting: true, Local: true, Score: 300},
			{ID: "p2", X: 600, Y: 300, Health: 100, MaxHealth: 100,
				MaxShield: 50, MaxEnergy: 100},
		},
		Projectiles: []game.ProjectileSnapshot{{X: 400, Y: 300, Rotation: 1.0}},
		PowerUps:    []game.PowerUpSnapshot{{X: 100, Y: 100, Color: "#4caf50"}},
		Asteroids:   []game.AsteroidSnapshot{{X: 500, Y: 400, Size: 35}},
		Particles:   []game.ParticleSnapshot{{X: 210, Y: 310, Color: "#ff9800", Size: 2, Alpha: 0.5}},
	}

	img := r.RenderFrame(snap)
	if img == nil {
		t.Fatal("RenderFrame returned nil")
	}

	bounds := img.Bounds()
	if bounds.Dx() != 800 || bounds.Dy() != 600 {
		t.Errorf("Expected 800x600 frame, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

// TestRenderEmptySnapshot tests rendering before any tick ran
func TestRenderEmptySnapshot(t *testing.T) {
	r, err := NewRenderer(320, 240)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	img := r.RenderFrame(&game.ArenaSnapshot{})
	if img == nil {
		t.Fatal("RenderFrame returned nil for empty snapshot")
	}
}

// TestHexToRGBA tests color parsing and fallback
func TestHexToRGBA(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff9800", color.RGBA{255, 152, 0, 255}},
		{"#4caf50", color.RGBA{76, 175, 80, 255}},
		{"#ffffff", color.RGBA{255, 255, 255, 255}},
		{"#000000", color.RGBA{0, 0, 0, 255}},
		{"garbage", color.RGBA{255, 255, 255, 255}},
		{"", color.RGBA{255, 255, 255, 255}},
		{"#zzzzzz", color.RGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		if got := hexToRGBA(tt.in); got != tt.want {
			t.Errorf("hexToRGBA(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
