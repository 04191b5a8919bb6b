// Package labeling holds the rule-based proxy that labels synthetic training
// records as sharp or square, and the mapping from labels to regression
// targets.
package labeling

import (
	"errors"
	"fmt"

	"github.com/okian/sharpscore/internal/domain/features"
)

// Labels produced by the heuristic.
const (
	Square = 0
	Sharp  = 1
)

// Regression targets. Sharp bettors sit at 0, casual punters at 100.
const (
	TargetSharp  = 0.0
	TargetSquare = 100.0
)

// SharpThreshold is the minimum accumulated score for a sharp label.
const SharpThreshold = 4.0

// Rule thresholds.
const (
	cpuHigh       = 16
	cpuMid        = 8
	memoryHigh    = 64
	memoryMid     = 32
	areaHigh      = 2560 * 1440
	areaMid       = 1920 * 1080
	batteryHigh   = 0.75
	batteryMid    = 0.5
	pixelRatioMin = 2
)

// ErrInvalidLabel is returned when a label is neither Square nor Sharp.
var ErrInvalidLabel = errors.New("label must be 0 or 1")

// Traits are the six inputs the heuristic weighs.
type Traits struct {
	CPUCores         float64
	DeviceMemory     float64
	ScreenWidth      float64
	ScreenHeight     float64
	BatteryLevel     float64
	DevicePixelRatio float64
}

// TraitsFromRow picks the heuristic inputs out of a feature row.
func TraitsFromRow(r features.Row) Traits {
	return Traits{
		CPUCores:         r.HardwareCPUCores,
		DeviceMemory:     r.HardwareMemory,
		ScreenWidth:      r.ScreenWidth,
		ScreenHeight:     r.ScreenHeight,
		BatteryLevel:     r.BatteryLevel,
		DevicePixelRatio: r.ScreenPixelRatio,
	}
}

// Score accumulates the weighted rule increments for t.
func Score(t Traits) float64 {
	var score float64

	switch {
	case t.CPUCores >= cpuHigh:
		score += 2
	case t.CPUCores >= cpuMid:
		score++
	}

	switch {
	case t.DeviceMemory >= memoryHigh:
		score += 2
	case t.DeviceMemory >= memoryMid:
		score++
	}

	switch area := t.ScreenWidth * t.ScreenHeight; {
	case area >= areaHigh:
		score += 2
	case area >= areaMid:
		score++
	}

	switch {
	case t.BatteryLevel >= batteryHigh:
		score++
	case t.BatteryLevel >= batteryMid:
		score += 0.5
	}

	if t.DevicePixelRatio >= pixelRatioMin {
		score++
	}

	return score
}

// Label returns Sharp when the accumulated score reaches SharpThreshold.
func Label(t Traits) int {
	if Score(t) >= SharpThreshold {
		return Sharp
	}
	return Square
}

// Target maps a label to its regression target. Only Square and Sharp are
// accepted.
func Target(label int) (float64, error) {
	switch label {
	case Sharp:
		return TargetSharp, nil
	case Square:
		return TargetSquare, nil
	default:
		return 0, fmt.Errorf("%w: got %d", ErrInvalidLabel, label)
	}
}
