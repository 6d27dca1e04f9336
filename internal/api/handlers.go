package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/hectar-glitches/bluetooth-game/internal/game"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the full Server.

// handleGetState returns the latest world snapshot. It reads the lock-free
// snapshot pool, so polling this endpoint never contends with the tick loop.
func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()

	players := make([]map[string]interface{}, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, map[string]interface{}{
			"id":       p.ID,
			"x":        p.X,
			"y":        p.Y,
			"rotation": p.Rotation,
			"health":   p.Health,
			"shield":   p.Shield,
			"energy":   p.Energy,
			"score":    p.Score,
			"local":    p.Local,
		})
	}

	writeJSON(w, map[string]interface{}{
		"tick":        snap.Tick,
		"elapsed":     snap.Elapsed,
		"players":     players,
		"projectiles": snap.Projectiles,
		"powerups":    snap.PowerUps,
		"asteroids":   snap.Asteroids,
	})
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()
	writeJSON(w, map[string]interface{}{
		"match":    stats,
		"peer":     h.peer.Stats(),
		"eventLog": h.engine.EventLogStats(),
	})
}

func (h *routerHandlers) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()
	writeJSON(w, map[string]interface{}{
		"elapsed":  stats.ElapsedSeconds,
		"finished": stats.Finished,
		"players":  stats.Players,
	})
}

func (h *routerHandlers) handleMatchStart(w http.ResponseWriter, r *http.Request) {
	log.Println("🎮 Match start requested via API")
	h.engine.StartGame()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleMatchReset(w http.ResponseWriter, r *http.Request) {
	log.Println("🔄 Match reset requested via API")
	h.engine.ResetGame()
	writeJSON(w, map[string]bool{"success": true})
}

// handlePostInput replaces the local ship's held-intent set. The body is a
// full InputState; missing fields mean released, matching how a HUD client
// reposts the whole set every change.
func (h *routerHandlers) handlePostInput(w http.ResponseWriter, r *http.Request) {
	var in game.InputState
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "Invalid input payload", http.StatusBadRequest)
		return
	}

	h.engine.SetInput(in)
	writeJSON(w, map[string]bool{"success": true})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
