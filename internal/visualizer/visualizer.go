// Package visualizer renders the animated orb shown on the player screen.
// Each mood variant has an Orb that turns {playing, drive, style} plus an
// animation clock into a block of styled terminal text. The session flow
// never reads anything back from here.
package visualizer

import (
	"math"
	"time"

	"github.com/xvierd/somatic/internal/domain"
)

// Frame is everything an orb needs to draw one animation frame.
type Frame struct {
	Playing bool
	// Drive is intensity/100, passed through unmodified.
	Drive float64
	Style domain.MoodStyle
	// T is animation time; it only advances while playing.
	T time.Duration
}

// FrameFor builds a frame from a controller snapshot.
func FrameFor(snap domain.Snapshot, t time.Duration) Frame {
	style, _ := snap.Mood()
	return Frame{
		Playing: snap.IsPlaying(),
		Drive:   snap.Drive(),
		Style:   style,
		T:       t,
	}
}

// Orb defines the interface for variant-specific rendering.
type Orb interface {
	// Variant returns the visualization tag this orb draws.
	Variant() domain.Variant

	// Scale returns the primary amplitude of the orb at the frame's time:
	// ring length for shake, outermost ring scale for hum, breathing scale
	// for rock. A paused orb reports its rest scale.
	Scale(f Frame) float64

	// Render draws the frame into a width x height block of text.
	Render(f Frame, width, height int) string
}

// ForVariant returns the Orb implementation for the given variant.
func ForVariant(v domain.Variant) Orb {
	switch v {
	case domain.VariantHum:
		return &humOrb{}
	case domain.VariantRock:
		return &rockOrb{}
	default:
		return newShakeOrb()
	}
}

// ShakePeak is the ring scale the shake orb reaches at the given drive.
func ShakePeak(drive float64) float64 {
	return 1.5 * drive
}

// HumPeriod is how long one hum ring takes to expand at the given drive.
// A zero period means rings do not expand.
func HumPeriod(drive float64) time.Duration {
	return time.Duration(float64(3*time.Second) * drive)
}

// RockPeak is the breathing scale the rock orb reaches at the given drive.
func RockPeak(drive float64) float64 {
	return 1.2 * drive
}

// keyframes interpolates evenly spaced values over one period, repeating.
func keyframes(values []float64, period, t time.Duration) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) == 1 || period <= 0 {
		return values[0]
	}
	pos := math.Mod(t.Seconds(), period.Seconds()) / period.Seconds()
	if pos < 0 {
		pos += 1
	}
	seg := pos * float64(len(values)-1)
	i := int(seg)
	if i >= len(values)-1 {
		return values[len(values)-1]
	}
	frac := easeInOut(seg - float64(i))
	return values[i] + (values[i+1]-values[i])*frac
}

func easeInOut(x float64) float64 {
	return 0.5 - 0.5*math.Cos(math.Pi*x)
}

// baseRadius is the rest radius in rows that leaves room for a 2x scale.
func baseRadius(width, height int) float64 {
	r := math.Min(float64(width)/4, float64(height)/2) * 0.5
	if r < 1 {
		return 1
	}
	return r
}
