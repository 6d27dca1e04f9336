package game

import "math"

// PlayerStats is the presentation view of one ship: percentages instead of
// raw pools, plus a session-relative label so the HUD never has to know
// which id belongs to which seat.
type PlayerStats struct {
	ID           string `json:"id"`
	DisplayLabel string `json:"display_label"`
	Score        int    `json:"score"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	HealthPct    int    `json:"health_pct"`
	ShieldPct    int    `json:"shield_pct"`
	EnergyPct    int    `json:"energy_pct"`
}

// MatchStats summarizes the session for dashboards and the stats endpoint.
type MatchStats struct {
	ElapsedSeconds    int           `json:"elapsed_seconds"`
	PowerUpsCollected int           `json:"powerups_collected"`
	ActiveProjectiles int           `json:"active_projectiles"`
	Finished          bool          `json:"finished"`
	Players           []PlayerStats `json:"players"`
}

// Stats computes the current presentation snapshot. Percentages are derived
// on demand from the raw pools; nothing here is stored.
func (e *Engine) Stats() MatchStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := MatchStats{
		ElapsedSeconds:    int(math.Floor(e.elapsed)),
		PowerUpsCollected: e.powerUpsCollected,
		ActiveProjectiles: len(e.projectiles),
		Finished:          e.finishedLocked(),
		Players:           make([]PlayerStats, 0, len(e.players)),
	}

	for _, p := range e.players {
		label := "Opponent"
		if p.ID == e.localID {
			label = "You"
		}
		stats.Players = append(stats.Players, PlayerStats{
			ID:           p.ID,
			DisplayLabel: label,
			Score:        p.Score,
			Kills:        p.Kills,
			Deaths:       p.Deaths,
			HealthPct:    percentage(p.Health, p.MaxHealth),
			ShieldPct:    percentage(p.Shield, p.MaxShield),
			EnergyPct:    percentage(p.Energy, p.MaxEnergy),
		})
	}
	return stats
}

func percentage(value, max float64) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(value / max * 100))
}
