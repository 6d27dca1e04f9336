// Package render draws arena snapshots into frames. It consumes only
// immutable snapshots, so it can run on any goroutine without touching the
// engine's locks.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/hectar-glitches/bluetooth-game/internal/game"
)

var ErrBadDimensions = errors.New("render: frame dimensions must be positive")

const (
	shipRadius     = 14.0
	barWidth       = 40.0
	barHeight      = 4.0
	minimapScale   = 0.12
	minimapMargin  = 10.0
	minimapOpacity = 160
)

// Renderer rasterizes snapshots at a fixed resolution. The gg context is
// reused across frames; Renderer is not safe for concurrent RenderFrame
// calls.
type Renderer struct {
	width  int
	height int
	dc     *gg.Context
}

// NewRenderer allocates a renderer for the given frame size.
func NewRenderer(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrBadDimensions
	}
	return &Renderer{
		width:  width,
		height: height,
		dc:     gg.NewContext(width, height),
	}, nil
}

// RenderFrame draws one complete frame from the snapshot.
func (r *Renderer) RenderFrame(snap *game.ArenaSnapshot) image.Image {
	dc := r.dc

	r.drawBackground(dc)
	r.drawAsteroids(dc, snap.Asteroids)
	r.drawPowerUps(dc, snap.PowerUps)
	r.drawParticles(dc, snap.Particles)
	r.drawProjectiles(dc, snap.Projectiles)
	r.drawShips(dc, snap.Players)
	r.drawHUD(dc, snap)
	r.drawMinimap(dc, snap)

	return dc.Image()
}

func (r *Renderer) drawBackground(dc *gg.Context) {
	dc.SetColor(color.RGBA{8, 10, 24, 255})
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()

	// Static starfield, deterministic from index so frames stay stable.
	dc.SetColor(color.RGBA{180, 185, 210, 255})
	for i := 0; i < 40; i++ {
		x := float64((i * 73) % r.width)
		y := float64((i * 131) % r.height)
		dc.DrawCircle(x, y, 1)
		dc.Fill()
	}
}

func (r *Renderer) drawAsteroids(dc *gg.Context, asteroids []game.AsteroidSnapshot) {
	for _, a := range asteroids {
		dc.Push()
		dc.Translate(a.X, a.Y)
		dc.Rotate(a.Rotation)

		// Lumpy octagon reads as a rock better than a clean circle.
		dc.NewSubPath()
		for i := 0; i < 8; i++ {
			angle := float64(i) / 8 * 2 * math.Pi
			radius := a.Size * (0.85 + 0.15*math.Sin(float64(i)*2.7))
			dc.LineTo(math.Cos(angle)*radius, math.Sin(angle)*radius)
		}
		dc.ClosePath()

		dc.SetColor(color.RGBA{70, 66, 62, 255})
		dc.FillPreserve()
		dc.SetColor(color.RGBA{110, 104, 96, 255})
		dc.SetLineWidth(2)
		dc.Stroke()
		dc.Pop()
	}
}

func (r *Renderer) drawPowerUps(dc *gg.Context, powerUps []game.PowerUpSnapshot) {
	for _, pu := range powerUps {
		c := hexToRGBA(pu.Color)

		// Soft halo under the pad.
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 60)
		dc.DrawCircle(pu.X, pu.Y, 14)
		dc.Fill()

		dc.SetColor(c)
		dc.DrawCircle(pu.X, pu.Y, 8)
		dc.Fill()
	}
}

func (r *Renderer) drawParticles(dc *gg.Context, particles []game.ParticleSnapshot) {
	for _, pt := range particles {
		c := hexToRGBA(pt.Color)
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(pt.Alpha*255))
		dc.DrawCircle(pt.X, pt.Y, pt.Size)
		dc.Fill()
	}
}

func (r *Renderer) drawProjectiles(dc *gg.Context, projectiles []game.ProjectileSnapshot) {
	for _, pr := range projectiles {
		// Short tracer behind the head.
		tailX := pr.X - math.Cos(pr.Rotation)*10
		tailY := pr.Y - math.Sin(pr.Rotation)*10
		dc.SetRGBA255(255, 235, 59, 120)
		dc.SetLineWidth(2)
		dc.DrawLine(tailX, tailY, pr.X, pr.Y)
		dc.Stroke()

		dc.SetRGBA255(255, 235, 59, 255)
		dc.DrawCircle(pr.X, pr.Y, 3)
		dc.Fill()
	}
}

func (r *Renderer) drawShips(dc *gg.Context, players []game.PlayerSnapshot) {
	for _, p := range players {
		hull := color.RGBA{233, 30, 99, 255} // opponent
		if p.Local {
			hull = color.RGBA{33, 150, 243, 255}
		}

		dc.Push()
		dc.Translate(p.X, p.Y)
		dc.Rotate(p.Rotation)

		if p.Thrusting {
			dc.SetRGBA255(255, 152, 0, 200)
			dc.MoveTo(-shipRadius, 0)
			dc.LineTo(-shipRadius-8, -4)
			dc.LineTo(-shipRadius-8, 4)
			dc.ClosePath()
			dc.Fill()
		}

		dc.MoveTo(shipRadius, 0)
		dc.LineTo(-shipRadius*0.7, -shipRadius*0.7)
		dc.LineTo(-shipRadius*0.4, 0)
		dc.LineTo(-shipRadius*0.7, shipRadius*0.7)
		dc.ClosePath()
		dc.SetColor(hull)
		dc.FillPreserve()
		dc.SetColor(color.White)
		dc.SetLineWidth(1.5)
		dc.Stroke()
		dc.Pop()

		r.drawStatusBars(dc, p)
	}
}

// drawStatusBars paints health, shield and energy above the ship.
func (r *Renderer) drawStatusBars(dc *gg.Context, p game.PlayerSnapshot) {
	x := p.X - barWidth/2
	y := p.Y - shipRadius - 16

	bars := []struct {
		value, max float64
		c          color.RGBA
	}{
		{p.Health, p.MaxHealth, color.RGBA{76, 175, 80, 255}},
		{p.Shield, p.MaxShield, color.RGBA{3, 169, 244, 255}},
		{p.Energy, p.MaxEnergy, color.RGBA{255, 193, 7, 255}},
	}

	for i, b := range bars {
		rowY := y + float64(i)*(barHeight+2)

		dc.SetRGBA255(0, 0, 0, 140)
		dc.DrawRectangle(x, rowY, barWidth, barHeight)
		dc.Fill()

		if b.max > 0 && b.value > 0 {
			dc.SetColor(b.c)
			dc.DrawRectangle(x, rowY, barWidth*(b.value/b.max), barHeight)
			dc.Fill()
		}
	}
}

func (r *Renderer) drawHUD(dc *gg.Context, snap *game.ArenaSnapshot) {
	dc.SetColor(color.White)
	y := 20.0
	for _, p := range snap.Players {
		label := "P2"
		if p.Local {
			label = "P1"
		}
		dc.DrawString(fmt.Sprintf("%s  score %d  kills %d", label, p.Score, p.Kills), 12, y)
		y += 16
	}
	dc.DrawString(fmt.Sprintf("%d:%02d", int(snap.Elapsed)/60, int(snap.Elapsed)%60),
		float64(r.width)-48, 20)
}

func (r *Renderer) drawMinimap(dc *gg.Context, snap *game.ArenaSnapshot) {
	if snap.Width <= 0 || snap.Height <= 0 {
		return
	}
	mw := snap.Width * minimapScale
	mh := snap.Height * minimapScale
	ox := float64(r.width) - mw - minimapMargin
	oy := float64(r.height) - mh - minimapMargin

	dc.SetRGBA255(0, 0, 0, minimapOpacity)
	dc.DrawRectangle(ox, oy, mw, mh)
	dc.Fill()

	for _, a := range snap.Asteroids {
		dc.SetRGBA255(110, 104, 96, 255)
		dc.DrawCircle(ox+a.X*minimapScale, oy+a.Y*minimapScale, 2)
		dc.Fill()
	}
	for _, p := range snap.Players {
		if p.Local {
			dc.SetRGBA255(33, 150, 243, 255)
		} else {
			dc.SetRGBA255(233, 30, 99, 255)
		}
		dc.DrawCircle(ox+p.X*minimapScale, oy+p.Y*minimapScale, 2.5)
		dc.Fill()
	}
}

// hexToRGBA parses "#rrggbb" strings; unparseable input falls back to white
// rather than failing a frame.
func hexToRGBA(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}
