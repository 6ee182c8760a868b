package visualizer

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/xvierd/somatic/internal/domain"
)

// --- Shake: jagged, energetic ---

const (
	shakeSpokes      = 12
	shakeSpokePeriod = 300 * time.Millisecond
	shakeSpokeStep   = 50 * time.Millisecond
	shakeCorePeriod  = 500 * time.Millisecond
)

type shakeOrb struct {
	rng *rand.Rand
}

func newShakeOrb() *shakeOrb {
	return &shakeOrb{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

func (s *shakeOrb) Variant() domain.Variant { return domain.VariantShake }

func (s *shakeOrb) Scale(f Frame) float64 {
	return s.spokeScale(f, 0)
}

func (s *shakeOrb) spokeScale(f Frame, i int) float64 {
	if !f.Playing {
		return 1
	}
	t := f.T - time.Duration(i)*shakeSpokeStep
	return keyframes([]float64{1, ShakePeak(f.Drive), 1}, shakeSpokePeriod, t)
}

func (s *shakeOrb) Render(f Frame, width, height int) string {
	c := newCanvas(width, height)
	cx, cy := c.center()
	base := baseRadius(width, height)

	core, tilt := 1.0, 0.0
	if f.Playing {
		core = keyframes([]float64{1, 1.2, 0.9, 1.3, 1}, shakeCorePeriod, f.T)
		tilt = keyframes([]float64{0, 10, -10, 5, 0}, shakeCorePeriod, f.T) * math.Pi / 180
		cx += (s.rng.Float64()*2 - 1) * f.Drive
	}

	inner := base * 0.6 * core
	c.disc(cx, cy, inner, tonePrimary)
	for i := 0; i < shakeSpokes; i++ {
		angle := float64(i)*2*math.Pi/shakeSpokes + tilt
		length := base * 0.4 * s.spokeScale(f, i)
		tn := toneSecondary
		if !f.Playing {
			tn = toneDim
		}
		c.spoke(cx, cy, angle, inner+0.5, inner+0.5+length, tn)
	}
	return c.Render(f.Style.Primary, f.Style.Secondary)
}

// --- Hum: concentric rings expanding outward ---

const (
	humRings       = 4
	humRingStagger = 600 * time.Millisecond
	humCorePeriod  = 3 * time.Second
	humRestScale   = 0.5
)

type humOrb struct{}

func (h *humOrb) Variant() domain.Variant { return domain.VariantHum }

// ring returns the scale and opacity of ring i. Hidden rings have zero opacity.
func (h *humOrb) ring(f Frame, i int) (scale, opacity float64) {
	period := HumPeriod(f.Drive)
	t := f.T - time.Duration(i)*humRingStagger
	if !f.Playing || period <= 0 || t < 0 {
		return humRestScale, 0
	}
	p := math.Mod(t.Seconds(), period.Seconds()) / period.Seconds()
	eased := 1 - (1-p)*(1-p)
	return humRestScale + 1.5*eased, 0.8 * (1 - p)
}

func (h *humOrb) Scale(f Frame) float64 {
	largest := humRestScale
	for i := 0; i < humRings; i++ {
		if s, o := h.ring(f, i); o > 0 && s > largest {
			largest = s
		}
	}
	return largest
}

func (h *humOrb) Render(f Frame, width, height int) string {
	c := newCanvas(width, height)
	cx, cy := c.center()
	base := baseRadius(width, height)

	core := 1.0
	if f.Playing {
		core = keyframes([]float64{1, 1.1, 1}, humCorePeriod, f.T)
	}
	c.disc(cx, cy, base*0.6*core, tonePrimary)

	for i := 0; i < humRings; i++ {
		scale, opacity := h.ring(f, i)
		if opacity < 0.1 {
			continue
		}
		r := '○'
		if opacity < 0.4 {
			r = '∙'
		}
		c.ring(cx, cy, base*scale, 0.6, r, toneSecondary)
	}
	return c.Render(f.Style.Primary, f.Style.Secondary)
}

// --- Rock: soft breathing droplet ---

const (
	rockPeriod    = 4 * time.Second
	rockGlowDelay = 500 * time.Millisecond
)

type rockOrb struct{}

func (r *rockOrb) Variant() domain.Variant { return domain.VariantRock }

func (r *rockOrb) Scale(f Frame) float64 {
	if !f.Playing {
		return 1
	}
	return keyframes([]float64{1, RockPeak(f.Drive), 1}, rockPeriod, f.T)
}

func (r *rockOrb) Render(f Frame, width, height int) string {
	c := newCanvas(width, height)
	cx, cy := c.center()
	base := baseRadius(width, height)

	glow := 1.2
	if f.Playing {
		glow = keyframes([]float64{1.2, 1.4, 1.2}, rockPeriod, f.T-rockGlowDelay)
	}
	c.disc(cx, cy, base*0.6*r.Scale(f), tonePrimary)
	c.ring(cx, cy, base*0.6*glow, 0.8, '·', toneSecondary)
	return c.Render(f.Style.Primary, f.Style.Secondary)
}
