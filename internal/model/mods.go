package model

// Mods is the gameplay modifier bitmask as sent by the client.
type Mods int32

const (
	ModNoFail Mods = 1 << iota
	ModEasy
	ModTouchscreen
	ModHidden
	ModHardRock
	ModSuddenDeath
	ModDoubleTime
	ModRelax
	ModHalfTime
	ModNightcore
	ModFlashlight
	ModAutoplay
	ModSpunOut
	ModAutopilot
	ModPerfect
	ModKey4
	ModKey5
	ModKey6
	ModKey7
	ModKey8
	ModFadeIn
	ModRandom
	ModCinema
	ModTarget
	ModKey9
	ModKeyCoop
	ModKey1
	ModKey3
	ModKey2
	ModScoreV2
	ModMirror
)

// SpeedMods are the per-player mods still allowed while freemod is on.
const SpeedMods = ModDoubleTime | ModNightcore | ModHalfTime
