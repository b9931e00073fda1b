package game

import (
	"time"

	"github.com/tomz197/bubblepop/internal/object"
)

// Round
const (
	RoundSeconds = 120 // Countdown start value
)

// Timers
const (
	SpawnInterval     = 500 * time.Millisecond
	CountdownInterval = time.Second
	MotionInterval    = 16 * time.Millisecond
	LaserVisibleFor   = 300 * time.Millisecond
)

// Bubbles
const (
	BubbleRadius      = 30.0
	BubbleRiseStep    = 2.0   // Units per motion tick, not scaled by elapsed time
	BubbleSpawnOffset = 100.0 // Spawn y is screen height minus this
)

// Default logical screen, used when Options leaves it empty.
const (
	DefaultScreenWidth  = 900
	DefaultScreenHeight = 600
)

// ColorScores maps each palette colour to the points it is worth.
var ColorScores = map[object.Color]int{
	object.ColorBlue:   1,
	object.ColorGreen:  2,
	object.ColorYellow: 3,
	object.ColorRed:    4,
	object.ColorPurple: 5,
}

// Points returns the score for a colour. Unmapped colours are worth 1.
func Points(c object.Color) int {
	if p, ok := ColorScores[c]; ok {
		return p
	}
	return 1
}
