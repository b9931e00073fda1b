// Package config centralizes the hosting and rendering parameters.
// Gameplay constants live in the game package.
package config

import "time"

// View resolution - the play area in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 900
	ViewHeight = 600
)

// Terminal limits. The canvas never grows past these, so large terminals get
// a centred, letterboxed view.
const (
	MaxTermWidth  = 120
	MaxTermHeight = 40
	MinTermWidth  = 40
	MinTermHeight = 14
)

// Keyboard gun movement while a direction key is held, in logical units per second.
const (
	NudgeSpeed = 600.0
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownTimeout        = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
	MaxFrameDelta  = 250 * time.Millisecond // Longer stalls advance the games by this much
)

// Channel sizes
const (
	CommandBuffer = 256
	EventBuffer   = 64
)
