package model

// Mode is a server-side game mode: the four vanilla modes plus their
// relax and autopilot variants, which have separate stats and
// leaderboards.
type Mode uint8

const (
	ModeStandard Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
	ModeRelaxStandard
	ModeRelaxTaiko
	ModeRelaxCatch
	ModeAutopilotStandard
)

// ModeFromMods maps a vanilla mode and a mod bitmask onto the
// server-side mode. Relax applies to everything but mania, autopilot
// only to standard.
func ModeFromMods(vanilla Mode, mods Mods) Mode {
	if mods&ModRelax != 0 && vanilla != ModeMania {
		return vanilla + ModeRelaxStandard
	}
	if mods&ModAutopilot != 0 && vanilla == ModeStandard {
		return ModeAutopilotStandard
	}
	return vanilla
}

// AsVanilla strips the relax/autopilot offset back to the client-facing
// mode value.
func (m Mode) AsVanilla() Mode {
	switch {
	case m == ModeAutopilotStandard:
		return ModeStandard
	case m >= ModeRelaxStandard:
		return m - ModeRelaxStandard
	default:
		return m
	}
}

// StatsPrefix is the per-mode column suffix used by the stats tables.
func (m Mode) StatsPrefix() string {
	switch m.AsVanilla() {
	case ModeTaiko:
		return "taiko"
	case ModeCatch:
		return "ctb"
	case ModeMania:
		return "mania"
	default:
		return "std"
	}
}

// StatsTable is the relational table holding this mode's stats.
func (m Mode) StatsTable() string {
	switch {
	case m == ModeAutopilotStandard:
		return "ap_stats"
	case m >= ModeRelaxStandard:
		return "rx_stats"
	default:
		return "users_stats"
	}
}

// RedisLeaderboard is the sorted-set family holding this mode's global
// ranking.
func (m Mode) RedisLeaderboard() string {
	switch {
	case m == ModeAutopilotStandard:
		return "autoboard"
	case m >= ModeRelaxStandard:
		return "relaxboard"
	default:
		return "leaderboard"
	}
}
