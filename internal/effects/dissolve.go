package effects

import "math"

// Particle is one square of a dissolving slide.
type Particle struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
	Life float64 `json:"life"`
	// Decay is subtracted from Life every frame.
	Decay float64 `json:"decay"`
}

// Dissolve lays a grid of particles over a width x height canvas, sized
// so that roughly ParticleCount of them cover it. Velocities scatter
// outwards with an upward lift.
func (g *Generator) Dissolve(width, height int) []Particle {
	c := g.cfg.Slideshow
	if width <= 0 || height <= 0 || c.ParticleCount <= 0 {
		return nil
	}
	step := int(math.Sqrt(float64(width*height) / float64(c.ParticleCount)))
	if step < 1 {
		step = 1
	}

	out := make([]Particle, 0, ((width+step-1)/step)*((height+step-1)/step))
	for y := 0; y < height; y += step {
		for x := 0; x < width; x += step {
			out = append(out, Particle{
				X:     float64(x),
				Y:     float64(y),
				Size:  float64(step),
				VX:    (g.rng.Float64() - 0.5) * c.Velocity,
				VY:    (g.rng.Float64()-0.5)*c.Velocity - c.Lift,
				Life:  1,
				Decay: c.Decay.draw(g.rng),
			})
		}
	}
	return out
}

// Step advances every live particle by one frame and returns how many were
// live before the step. Animation stops once it returns 0.
func Step(particles []Particle) int {
	active := 0
	for i := range particles {
		p := &particles[i]
		if p.Life <= 0 {
			continue
		}
		active++
		p.X += p.VX
		p.Y += p.VY
		p.Life -= p.Decay
	}
	return active
}

// Slide is one slideshow transition: the From slide dissolves into
// Particles, and To becomes visible SwapDelay seconds later.
type Slide struct {
	From      int        `json:"from"`
	To        int        `json:"to"`
	SwapDelay float64    `json:"swap_delay"`
	Particles []Particle `json:"particles"`
}

// Slideshow cycles through a fixed number of slides.
type Slideshow struct {
	count   int
	current int
}

func NewSlideshow(count int) *Slideshow {
	return &Slideshow{count: count}
}

// Current returns the index of the visible slide, or -1 with no slides.
func (s *Slideshow) Current() int {
	if s.count == 0 {
		return -1
	}
	return s.current
}

// Next advances to the following slide, wrapping around, and returns it.
func (s *Slideshow) Next() int {
	if s.count == 0 {
		return -1
	}
	s.current = (s.current + 1) % s.count
	return s.current
}
