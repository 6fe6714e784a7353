package effects

import "time"

// Rand is the random source of the generators. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Star is a static starfield dot. Sizes are px, positions % of the page,
// times seconds.
type Star struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	Delay    float64 `json:"delay"`
	Duration float64 `json:"duration"`
}

type Bubble struct {
	Size     float64 `json:"size"`
	Left     float64 `json:"left"`
	Drift    float64 `json:"drift"`
	Delay    float64 `json:"delay"`
	Duration float64 `json:"duration"`
}

// Streak is a comet or a shooting star.
type Streak struct {
	Top      float64 `json:"top"`
	Left     float64 `json:"left"`
	Delay    float64 `json:"delay"`
	Duration float64 `json:"duration"`
}

// TTL is how long the streak lives before it is removed.
func (s Streak) TTL() time.Duration {
	return seconds(s.Delay + s.Duration)
}

type TwinklingStar struct {
	Size     float64 `json:"size"`
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	Delay    float64 `json:"delay"`
	Duration float64 `json:"duration"`
}

// Generator draws randomized effect parameters within the configured
// ranges. It is not safe for concurrent use.
type Generator struct {
	cfg Config
	rng Rand
}

func NewGenerator(cfg Config, rng Rand) *Generator {
	return &Generator{cfg: cfg, rng: rng}
}

func (g *Generator) Stars(n int) []Star {
	c := g.cfg.Stars
	out := make([]Star, n)
	for i := range out {
		out[i] = Star{
			Width:    c.Size.draw(g.rng),
			Height:   c.Size.draw(g.rng),
			Left:     g.rng.Float64() * 100,
			Top:      g.rng.Float64() * 100,
			Delay:    c.Delay.draw(g.rng),
			Duration: c.Duration.draw(g.rng),
		}
	}
	return out
}

// Bubbles draws n bubbles. Delayed bubbles are the initial batch; bubbles
// spawned later start at once.
func (g *Generator) Bubbles(n int, delayed bool) []Bubble {
	c := g.cfg.Bubbles
	out := make([]Bubble, n)
	for i := range out {
		b := Bubble{
			Size:     c.Size.draw(g.rng),
			Left:     g.rng.Float64() * 100,
			Drift:    c.Drift.draw(g.rng),
			Duration: c.Duration.draw(g.rng),
		}
		if delayed {
			b.Delay = c.Delay.draw(g.rng)
		}
		out[i] = b
	}
	return out
}

func (g *Generator) Comets(n int) []Streak {
	return g.streaks(g.cfg.Comets, n)
}

func (g *Generator) ShootingStars(n int) []Streak {
	return g.streaks(g.cfg.ShootingStars, n)
}

func (g *Generator) streaks(c StreakConfig, n int) []Streak {
	out := make([]Streak, n)
	for i := range out {
		var s Streak
		switch {
		case c.EdgeSpan <= 0:
			s.Top = c.Top.draw(g.rng)
			s.Left = c.Left.draw(g.rng)
		case g.rng.Float64() > 0.5:
			s.Top = g.rng.Float64() * c.EdgeSpan
			s.Left = c.Left.draw(g.rng)
		default:
			s.Top = c.Top.draw(g.rng)
			s.Left = g.rng.Float64() * c.EdgeSpan
		}
		s.Duration = c.Duration.draw(g.rng)
		s.Delay = c.Delay.draw(g.rng)
		out[i] = s
	}
	return out
}

func (g *Generator) TwinklingStars(n int) []TwinklingStar {
	c := g.cfg.TwinklingStars
	out := make([]TwinklingStar, n)
	for i := range out {
		out[i] = TwinklingStar{
			Size:     c.Size.draw(g.rng),
			Left:     g.rng.Float64() * 100,
			Top:      g.rng.Float64() * 100,
			Duration: c.Duration.draw(g.rng),
			Delay:    c.Delay.draw(g.rng),
		}
	}
	return out
}

// Walk sends the assistant's avatar to one side of the viewport. Offset is
// in pixels from that side.
type Walk struct {
	Side     string  `json:"side"` // "left" or "right"
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration"`
}

// Walk picks a side at random.
func (g *Generator) Walk() Walk {
	c := g.cfg.Walk
	w := Walk{Side: "left", Offset: c.LeftOffset, Duration: c.Duration.Seconds()}
	if g.rng.Float64() > 0.5 {
		w.Side, w.Offset = "right", c.RightInset
	}
	return w
}

// spawn reports whether a periodic spawn goes ahead.
func (g *Generator) spawn(chance float64) bool {
	return g.rng.Float64() < chance
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
