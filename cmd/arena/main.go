package main

import (
	"fmt"
	"image/png"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hectar-glitches/bluetooth-game/internal/api"
	"github.com/hectar-glitches/bluetooth-game/internal/audio"
	"github.com/hectar-glitches/bluetooth-game/internal/config"
	"github.com/hectar-glitches/bluetooth-game/internal/game"
	"github.com/hectar-glitches/bluetooth-game/internal/netsync"
	"github.com/hectar-glitches/bluetooth-game/internal/render"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("🚀 ================================")
	log.Println("🚀  ARENA DUEL - GO ENGINE")
	log.Println("🚀 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	arenaCfg := appConfig.Arena
	matchCfg := appConfig.Match
	peerCfg := appConfig.Peer
	serverCfg := appConfig.Server

	log.Printf("🎮 Config: %dx%d arena, %d TPS, role=%s, id=%s",
		arenaCfg.Width, arenaCfg.Height, arenaCfg.TickRate, peerCfg.Role, peerCfg.PlayerID)

	engine, err := game.NewEngine(game.Config{
		Width:         float64(arenaCfg.Width),
		Height:        float64(arenaCfg.Height),
		PowerUpCount:  arenaCfg.PowerUpCount,
		AsteroidCount: arenaCfg.AsteroidCount,
		MatchDuration: matchCfg.DurationSeconds,
		ScoreLimit:    matchCfg.ScoreLimit,
		TickRate:      arenaCfg.TickRate,
		Seed:          arenaCfg.Seed,
	})
	if err != nil {
		log.Fatalf("❌ Engine init failed: %v", err)
	}

	isHost := peerCfg.Role != "client"
	if isHost {
		engine.InitializeAsHost(peerCfg.PlayerID)
	} else {
		engine.InitializeAsClient(peerCfg.PlayerID)
	}

	// Match journal
	if serverCfg.EventLogPath != "" {
		if err := engine.StartEventLog(serverCfg.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", serverCfg.EventLogPath)
		}
	}

	// Debug server (pprof + metrics, localhost only)
	if serverCfg.DebugServer {
		debugCfg := api.DefaultObservabilityConfig()
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// Audio cues and metrics ride the engine's event callbacks.
	cues := audio.NewCuePlayer(appConfig.Audio.Enabled)
	engine.OnFire = cues.Fire
	engine.OnHit = cues.Hit
	engine.OnKill = func(killer, victim string) {
		api.RecordKill()
		cues.Kill(killer, victim)
	}
	engine.OnPickup = func(id string, typ game.PowerUpType) {
		api.RecordPickup()
		cues.Pickup(id)
	}
	engine.OnBoost = cues.Boost
	engine.TickObserver = api.RecordTick

	// Peer state-sync channel
	peer := netsync.NewPeer(engine)
	engine.SetUpdateSink(peer.Send)

	if isHost {
		peerMux := http.NewServeMux()
		peerMux.Handle("/peer", peer.Handler())
		go func() {
			log.Printf("🔗 Peer endpoint listening on %s/peer", peerCfg.Listen)
			if err := http.ListenAndServe(peerCfg.Listen, peerMux); err != nil {
				log.Fatalf("❌ Peer listener failed: %v", err)
			}
		}()
	} else {
		go func() {
			log.Printf("🔗 Dialing host at %s", peerCfg.HostURL)
			if err := peer.Dial(peerCfg.HostURL); err != nil {
				log.Printf("⚠️ Could not reach host: %v", err)
			}
		}()
	}

	// Gauges refresh from the lock-free snapshot, off the tick path.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			snap := engine.Snapshot()
			api.UpdateEntityCounts(len(snap.Projectiles), len(snap.Particles))
			api.UpdatePeerConnected(peer.Connected())
		}
	}()

	// Optional frame dumps for debugging and thumbnails.
	if frameDir := os.Getenv("FRAME_DIR"); frameDir != "" {
		go runFrameDumper(engine, arenaCfg.Width, arenaCfg.Height, frameDir)
	}

	engine.StartGame()
	engine.Start()

	// Announce the terminal condition once.
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if engine.Finished() {
				log.Println("🏁 Match finished (reset via POST /api/match/reset)")
				return
			}
		}
	}()

	server := api.NewServer(engine, peer)
	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("❌ API server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down...")
	engine.Stop()
	engine.StopEventLog()
	peer.Close()
	server.Stop()
	log.Println("👋 Goodbye")
}

// runFrameDumper renders and writes one PNG per second from the latest
// snapshot. Purely observational; the simulation does not wait for it.
func runFrameDumper(engine *game.Engine, width, height int, dir string) {
	r, err := render.NewRenderer(width, height)
	if err != nil {
		log.Printf("⚠️ Frame dumper disabled: %v", err)
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Frame dumper disabled: %v", err)
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	frame := 0
	for range ticker.C {
		start := time.Now()
		img := r.RenderFrame(engine.Snapshot())
		api.RecordRender(time.Since(start))

		path := fmt.Sprintf("%s/frame_%06d.png", dir, frame)
		f, err := os.Create(path)
		if err != nil {
			log.Printf("⚠️ Frame write failed: %v", err)
			continue
		}
		if err := png.Encode(f, img); err != nil {
			log.Printf("⚠️ Frame encode failed: %v", err)
		}
		f.Close()
		frame++
	}
}
