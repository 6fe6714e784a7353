// Package effects generates the parameters of the page's decorative
// effects and the cadence at which new ones appear: stars, bubbles, comets,
// shooting stars, the slideshow dissolve and the assistant's walk. The
// browser only renders what it is sent.
package effects

import (
	"fmt"
	"time"
)

// Range is an inclusive-exclusive interval [Min, Max).
type Range struct {
	Min float64 `koanf:"min" json:"min"`
	Max float64 `koanf:"max" json:"max"`
}

func (r Range) draw(rng Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// StarsConfig covers the static starfield, created in chunks.
type StarsConfig struct {
	Count      int           `koanf:"count" json:"count"`
	ChunkSize  int           `koanf:"chunk_size" json:"chunk_size"`
	ChunkDelay time.Duration `koanf:"chunk_delay" json:"chunk_delay"`
	StartDelay time.Duration `koanf:"start_delay" json:"start_delay"`
	Size       Range         `koanf:"size" json:"size"`
	Delay      Range         `koanf:"delay" json:"delay"`
	Duration   Range         `koanf:"duration" json:"duration"`
}

// BubblesConfig covers rising bubbles.
type BubblesConfig struct {
	Initial    int           `koanf:"initial" json:"initial"`
	Max        int           `koanf:"max" json:"max"`
	Interval   time.Duration `koanf:"interval" json:"interval"`
	StartDelay time.Duration `koanf:"start_delay" json:"start_delay"`
	Size       Range         `koanf:"size" json:"size"`
	Drift      Range         `koanf:"drift" json:"drift"`
	Delay      Range         `koanf:"delay" json:"delay"`
	Duration   Range         `koanf:"duration" json:"duration"`
}

// StreakConfig covers comets and shooting stars: a few staggered at start,
// then one per interval with probability SpawnChance.
type StreakConfig struct {
	Initial     int           `koanf:"initial" json:"initial"`
	Stagger     time.Duration `koanf:"stagger" json:"stagger"`
	Interval    DurationRange `koanf:"interval" json:"interval"`
	SpawnChance float64       `koanf:"spawn_chance" json:"spawn_chance"`
	Top         Range         `koanf:"top" json:"top"`
	Left        Range         `koanf:"left" json:"left"`
	Duration    Range         `koanf:"duration" json:"duration"`
	Delay       Range         `koanf:"delay" json:"delay"`
	// EdgeSpan, when set, starts half of the streaks along the top edge
	// and half along the left edge, within this percentage of the page.
	EdgeSpan float64 `koanf:"edge_span" json:"edge_span"`
}

// DurationRange bounds a randomized interval.
type DurationRange struct {
	Min time.Duration `koanf:"min" json:"min"`
	Max time.Duration `koanf:"max" json:"max"`
}

func (r DurationRange) draw(rng Rand) time.Duration {
	span := r.Max - r.Min
	if span <= 0 {
		return r.Min
	}
	return r.Min + time.Duration(rng.Float64()*float64(span))
}

// TwinkleConfig covers stars that twinkle forever.
type TwinkleConfig struct {
	Count    int   `koanf:"count" json:"count"`
	Size     Range `koanf:"size" json:"size"`
	Duration Range `koanf:"duration" json:"duration"`
	Delay    Range `koanf:"delay" json:"delay"`
}

// SlideshowConfig covers the about-section slideshow and its dissolve.
type SlideshowConfig struct {
	Interval      time.Duration `koanf:"interval" json:"interval"`
	StartDelay    time.Duration `koanf:"start_delay" json:"start_delay"`
	SwapDelay     time.Duration `koanf:"swap_delay" json:"swap_delay"`
	ParticleCount int           `koanf:"particle_count" json:"particle_count"`
	Velocity      float64       `koanf:"velocity" json:"velocity"`
	Lift          float64       `koanf:"lift" json:"lift"`
	Decay         Range         `koanf:"decay" json:"decay"`
}

// WalkConfig covers the assistant avatar strolling between the bottom
// corners. A walk starts every Interval unless one is under way.
type WalkConfig struct {
	Interval   time.Duration `koanf:"interval" json:"interval"`
	Duration   time.Duration `koanf:"duration" json:"duration"`
	LeftOffset float64       `koanf:"left_offset" json:"left_offset"`
	RightInset float64       `koanf:"right_inset" json:"right_inset"`
}

// Reveal is one scroll-triggered entrance animation.
type Reveal struct {
	Selector string  `koanf:"selector" json:"selector"`
	Trigger  string  `koanf:"trigger" json:"trigger,omitempty"`
	Start    string  `koanf:"start" json:"start"`
	Duration float64 `koanf:"duration" json:"duration"`
	X        float64 `koanf:"x" json:"x,omitempty"`
	Y        float64 `koanf:"y" json:"y,omitempty"`
	Scale    float64 `koanf:"scale" json:"scale,omitempty"`
	Stagger  float64 `koanf:"stagger" json:"stagger,omitempty"`
	Ease     string  `koanf:"ease" json:"ease"`
}

// ScrollConfig covers section tracking and entrance animations.
type ScrollConfig struct {
	Threshold     float64  `koanf:"threshold" json:"threshold"`
	RootMargin    string   `koanf:"root_margin" json:"root_margin"`
	ToggleActions string   `koanf:"toggle_actions" json:"toggle_actions"`
	Reveals       []Reveal `koanf:"reveals" json:"reveals"`
}

// Config holds every tuning knob of the page's effects. A zero count
// disables the corresponding effect.
type Config struct {
	Stars          StarsConfig     `koanf:"stars" json:"stars"`
	Bubbles        BubblesConfig   `koanf:"bubbles" json:"bubbles"`
	Comets         StreakConfig    `koanf:"comets" json:"comets"`
	ShootingStars  StreakConfig    `koanf:"shooting_stars" json:"shooting_stars"`
	TwinklingStars TwinkleConfig   `koanf:"twinkling_stars" json:"twinkling_stars"`
	Slideshow      SlideshowConfig `koanf:"slideshow" json:"slideshow"`
	Walk           WalkConfig      `koanf:"walk" json:"walk"`
	Scroll         ScrollConfig    `koanf:"scroll" json:"scroll"`
}

// DefaultConfig returns the tuning the site ships with.
func DefaultConfig() Config {
	return Config{
		Stars: StarsConfig{
			Count:      80,
			ChunkSize:  10,
			ChunkDelay: 50 * time.Millisecond,
			StartDelay: 100 * time.Millisecond,
			Size:       Range{1, 3},
			Delay:      Range{0, 3},
			Duration:   Range{2, 4},
		},
		Bubbles: BubblesConfig{
			Initial:    8,
			Max:        15,
			Interval:   5 * time.Second,
			StartDelay: 200 * time.Millisecond,
			Size:       Range{30, 120},
			Drift:      Range{-50, 50},
			Delay:      Range{0, 5},
			Duration:   Range{15, 25},
		},
		Comets: StreakConfig{
			Initial:     3,
			Stagger:     3 * time.Second,
			Interval:    DurationRange{8 * time.Second, 12 * time.Second},
			SpawnChance: 0.7,
			Top:         Range{0, 100},
			Left:        Range{0, 100},
			Duration:    Range{2, 4},
			Delay:       Range{0, 8},
			EdgeSpan:    30,
		},
		ShootingStars: StreakConfig{
			Initial:     5,
			Stagger:     2 * time.Second,
			Interval:    DurationRange{3 * time.Second, 6 * time.Second},
			SpawnChance: 0.8,
			Top:         Range{0, 40},
			Left:        Range{0, 50},
			Duration:    Range{1.5, 2.5},
			Delay:       Range{0, 5},
		},
		TwinklingStars: TwinkleConfig{
			Count:    50,
			Size:     Range{1, 4},
			Duration: Range{2, 5},
			Delay:    Range{0, 3},
		},
		Slideshow: SlideshowConfig{
			Interval:      7 * time.Second,
			StartDelay:    time.Second,
			SwapDelay:     100 * time.Millisecond,
			ParticleCount: 1000,
			Velocity:      8,
			Lift:          2,
			Decay:         Range{0.015, 0.035},
		},
		Walk: WalkConfig{
			Interval:   8 * time.Second,
			Duration:   3 * time.Second,
			LeftOffset: 50,
			RightInset: 170,
		},
		Scroll: ScrollConfig{
			Threshold:     0.3,
			RootMargin:    "-80px 0px -20% 0px",
			ToggleActions: "play none none reverse",
			Reveals: []Reveal{
				{Selector: ".about-img-slideshow", Trigger: "#about", Start: "top 85%", Duration: 0.6, X: -50, Ease: "power2.out"},
				{Selector: ".about-content", Trigger: "#about", Start: "top 85%", Duration: 0.6, X: 50, Ease: "power2.out"},
				{Selector: ".timeline-item", Start: "top 85%", Duration: 0.5, Y: 20, Ease: "power2.out"},
				{Selector: ".skill-card", Start: "top 85%", Duration: 0.5, Y: 20, Ease: "power2.out"},
				{Selector: ".project-card", Start: "top 85%", Duration: 0.5, Y: 20, Ease: "power2.out"},
				{Selector: ".cert-card", Start: "top 85%", Duration: 0.5, Y: 20, Ease: "power2.out"},
				{Selector: ".contact-info", Trigger: "#contact", Start: "top 85%", Duration: 0.6, X: -30, Ease: "power2.out"},
				{Selector: ".contact-form", Trigger: "#contact", Start: "top 85%", Duration: 0.6, X: 30, Ease: "power2.out"},
				{Selector: ".achievement-banner", Trigger: ".achievement-section", Start: "top 80%", Duration: 0.8, Scale: 0.95, Ease: "power2.out"},
				{Selector: ".tech-card", Trigger: ".tech-grid", Start: "top 80%", Duration: 0.6, Y: 30, Stagger: 0.1, Ease: "power2.out"},
			},
		},
	}
}

// Validate rejects settings the generators cannot work with.
func (c Config) Validate() error {
	if c.Stars.Count > 0 && c.Stars.ChunkSize <= 0 {
		return fmt.Errorf("stars.chunk_size must be positive")
	}
	if c.Bubbles.Max < 0 || c.Bubbles.Initial < 0 {
		return fmt.Errorf("bubbles counts must be non-negative")
	}
	if c.Bubbles.Initial > 0 && c.Bubbles.Interval <= 0 {
		return fmt.Errorf("bubbles.interval must be positive")
	}
	for name, s := range map[string]StreakConfig{"comets": c.Comets, "shooting_stars": c.ShootingStars} {
		if s.SpawnChance < 0 || s.SpawnChance > 1 {
			return fmt.Errorf("%s.spawn_chance must be within [0, 1]", name)
		}
		if s.Interval.Max < s.Interval.Min {
			return fmt.Errorf("%s.interval max is below min", name)
		}
		if s.SpawnChance > 0 && s.Interval.Min <= 0 {
			return fmt.Errorf("%s.interval must be positive", name)
		}
	}
	if c.Slideshow.ParticleCount < 0 {
		return fmt.Errorf("slideshow.particle_count must be non-negative")
	}
	if c.Slideshow.Interval < 0 || c.Slideshow.StartDelay < 0 || c.Slideshow.SwapDelay < 0 {
		return fmt.Errorf("slideshow delays must be non-negative")
	}
	if c.Walk.Duration > 0 && c.Walk.Interval <= 0 {
		return fmt.Errorf("walk.interval must be positive")
	}
	if c.Scroll.Threshold < 0 || c.Scroll.Threshold > 1 {
		return fmt.Errorf("scroll.threshold must be within [0, 1]")
	}
	return nil
}
