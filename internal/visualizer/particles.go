package visualizer

import (
	"math/rand/v2"
	"time"
)

const particleCount = 20

type particle struct {
	fromX, fromY float64
	toX, toY     float64
	delay        time.Duration
	duration     time.Duration
	age          time.Duration
}

// Particles is the drifting field behind the afterglow copy. Positions are
// kept in unit coordinates and scaled at render time.
type Particles struct {
	rng   *rand.Rand
	items []particle
}

// NewParticles seeds a particle field. The same seed yields the same motion.
func NewParticles(seed uint64) *Particles {
	p := &Particles{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
	p.items = make([]particle, particleCount)
	for i := range p.items {
		x, y := p.rng.Float64(), p.rng.Float64()
		p.items[i] = particle{fromX: x, fromY: y}
		p.retarget(&p.items[i])
		p.items[i].delay = time.Duration(p.rng.Float64() * float64(2*time.Second))
	}
	return p
}

func (p *Particles) retarget(it *particle) {
	it.toX, it.toY = p.rng.Float64(), p.rng.Float64()
	it.duration = 8*time.Second + time.Duration(p.rng.Float64()*float64(4*time.Second))
	it.age = 0
	it.delay = 0
}

// Step advances every particle by dt.
func (p *Particles) Step(dt time.Duration) {
	for i := range p.items {
		it := &p.items[i]
		step := dt
		if it.delay > 0 {
			if step <= it.delay {
				it.delay -= step
				continue
			}
			step -= it.delay
			it.delay = 0
		}
		it.age += step
		if it.age >= it.duration {
			it.fromX, it.fromY = it.toX, it.toY
			p.retarget(it)
		}
	}
}

func (it particle) position() (x, y, opacity float64) {
	if it.delay > 0 || it.duration <= 0 {
		return it.fromX, it.fromY, 0
	}
	t := float64(it.age) / float64(it.duration)
	e := easeInOut(t)
	x = it.fromX + (it.toX-it.fromX)*e
	y = it.fromY + (it.toY-it.fromY)*e
	opacity = keyframes([]float64{0, 1, 0}, it.duration, it.age)
	return x, y, opacity
}

// Render draws the field into a width x height block.
func (p *Particles) Render(width, height int) string {
	c := newCanvas(width, height)
	for _, it := range p.items {
		x, y, o := it.position()
		if o < 0.15 {
			continue
		}
		r := '·'
		if o > 0.6 {
			r = '•'
		}
		c.set(int(x*float64(c.w-1)), int(y*float64(c.h-1)), r, toneDim)
	}
	return c.Render("", "")
}
