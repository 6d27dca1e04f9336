// Package audio plays short synthesized cues for combat events. Tones are
// generated, not sampled, so the binary ships no asset files.
package audio

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// cue describes one synthesized tone.
type cue struct {
	freq     float64
	duration time.Duration
}

var cues = map[string]cue{
	"fire":   {freq: 880, duration: 60 * time.Millisecond},
	"hit":    {freq: 220, duration: 90 * time.Millisecond},
	"kill":   {freq: 110, duration: 300 * time.Millisecond},
	"pickup": {freq: 1320, duration: 120 * time.Millisecond},
	"boost":  {freq: 520, duration: 150 * time.Millisecond},
}

// CuePlayer plays event tones through the default audio device. A disabled
// player swallows every call, which is the headless-server mode and also
// what tests run against.
type CuePlayer struct {
	mu      sync.Mutex
	enabled bool
	ready   bool
}

// NewCuePlayer initializes the speaker when enabled. Speaker init failure
// (no audio device) degrades to disabled rather than failing startup.
func NewCuePlayer(enabled bool) *CuePlayer {
	cp := &CuePlayer{enabled: enabled}
	if !enabled {
		return cp
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		log.Printf("🔇 Audio unavailable, cues disabled: %v", err)
		cp.enabled = false
		return cp
	}
	cp.ready = true
	log.Println("🔊 Audio cues enabled")
	return cp
}

// Enabled reports whether cues will actually sound.
func (cp *CuePlayer) Enabled() bool {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.enabled && cp.ready
}

func (cp *CuePlayer) play(name string) {
	if !cp.Enabled() {
		return
	}
	c, ok := cues[name]
	if !ok {
		return
	}

	tone, err := generators.SineTone(sampleRate, c.freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(c.duration), tone))
}

// Fire plays the shot cue.
func (cp *CuePlayer) Fire(playerID string) { cp.play("fire") }

// Hit plays the impact cue.
func (cp *CuePlayer) Hit(victimID string) { cp.play("hit") }

// Kill plays the destruction cue.
func (cp *CuePlayer) Kill(killerID, victimID string) { cp.play("kill") }

// Pickup plays the collection cue.
func (cp *CuePlayer) Pickup(playerID string) { cp.play("pickup") }

// Boost plays the boost cue.
func (cp *CuePlayer) Boost(playerID string) { cp.play("boost") }
