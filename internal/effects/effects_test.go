package effects

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newGen(cfg Config) *Generator {
	return NewGenerator(cfg, rand.New(rand.NewSource(1)))
}

func within(t *testing.T, r Range, v float64, what string) {
	t.Helper()
	assert.GreaterOrEqualf(t, v, r.Min, "%s below range", what)
	assert.LessOrEqualf(t, v, r.Max, "%s above range", what)
}

func TestGenerator_StarsWithinRanges(t *testing.T) {
	cfg := DefaultConfig()
	stars := newGen(cfg).Stars(200)
	require.Len(t, stars, 200)
	for _, s := range stars {
		within(t, cfg.Stars.Size, s.Width, "width")
		within(t, cfg.Stars.Size, s.Height, "height")
		within(t, Range{0, 100}, s.Left, "left")
		within(t, Range{0, 100}, s.Top, "top")
		within(t, cfg.Stars.Delay, s.Delay, "delay")
		within(t, cfg.Stars.Duration, s.Duration, "duration")
	}
}

func TestGenerator_Bubbles(t *testing.T) {
	cfg := DefaultConfig()
	g := newGen(cfg)

	for _, b := range g.Bubbles(100, true) {
		within(t, cfg.Bubbles.Size, b.Size, "size")
		within(t, cfg.Bubbles.Drift, b.Drift, "drift")
		within(t, cfg.Bubbles.Delay, b.Delay, "delay")
		within(t, cfg.Bubbles.Duration, b.Duration, "duration")
	}
	for _, b := range g.Bubbles(20, false) {
		assert.Zero(t, b.Delay)
	}
}

func TestGenerator_CometsStartNearAnEdge(t *testing.T) {
	cfg := DefaultConfig()
	var fromTop, fromLeft int
	for _, c := range newGen(cfg).Comets(300) {
		within(t, cfg.Comets.Duration, c.Duration, "duration")
		within(t, cfg.Comets.Delay, c.Delay, "delay")
		assert.True(t, c.Top <= cfg.Comets.EdgeSpan || c.Left <= cfg.Comets.EdgeSpan)
		if c.Top <= cfg.Comets.EdgeSpan {
			fromTop++
		}
		if c.Left <= cfg.Comets.EdgeSpan {
			fromLeft++
		}
		assert.Equal(t, seconds(c.Delay+c.Duration), c.TTL())
	}
	assert.Positive(t, fromTop)
	assert.Positive(t, fromLeft)
}

func TestGenerator_ShootingStarsUpperLeft(t *testing.T) {
	cfg := DefaultConfig()
	for _, s := range newGen(cfg).ShootingStars(100) {
		within(t, cfg.ShootingStars.Top, s.Top, "top")
		within(t, cfg.ShootingStars.Left, s.Left, "left")
		within(t, cfg.ShootingStars.Duration, s.Duration, "duration")
	}
}

func TestGenerator_TwinklingStars(t *testing.T) {
	cfg := DefaultConfig()
	stars := newGen(cfg).TwinklingStars(cfg.TwinklingStars.Count)
	assert.Len(t, stars, 50)
	for _, s := range stars {
		within(t, cfg.TwinklingStars.Size, s.Size, "size")
		within(t, cfg.TwinklingStars.Duration, s.Duration, "duration")
	}
}

func TestGenerator_Batch(t *testing.T) {
	g := newGen(DefaultConfig())
	for _, k := range Kinds() {
		spawn, ok := g.Batch(k, 3)
		require.True(t, ok, k)
		assert.Equal(t, k, spawn.Kind)
		assert.NotNil(t, spawn.Items)
	}
	_, ok := g.Batch("fireworks", 1)
	assert.False(t, ok)
}

func TestDissolve_Grid(t *testing.T) {
	cfg := DefaultConfig()
	g := newGen(cfg)

	// 400x250 over 1000 particles: step 10, 40x25 grid.
	particles := g.Dissolve(400, 250)
	require.Len(t, particles, 1000)
	assert.Equal(t, 0.0, particles[0].X)
	assert.Equal(t, 10.0, particles[1].X)
	assert.Equal(t, 10.0, particles[40].Y)
	for _, p := range particles {
		assert.Equal(t, 10.0, p.Size)
		assert.Equal(t, 1.0, p.Life)
		within(t, Range{-4, 4}, p.VX, "vx")
		within(t, Range{-6, 2}, p.VY, "vy")
		within(t, cfg.Slideshow.Decay, p.Decay, "decay")
	}

	assert.Nil(t, g.Dissolve(0, 100))
	assert.Len(t, g.Dissolve(3, 3), 9)
}

func TestStep_RunsOut(t *testing.T) {
	particles := []Particle{
		{X: 0, Y: 0, VX: 1, VY: -1, Life: 1, Decay: 0.5},
		{X: 5, Y: 5, VX: 0, VY: 0, Life: 1, Decay: 0.25},
	}

	assert.Equal(t, 2, Step(particles))
	assert.Equal(t, 1.0, particles[0].X)
	assert.Equal(t, -1.0, particles[0].Y)
	assert.InDelta(t, 0.5, particles[0].Life, 1e-9)

	frames := 1
	for Step(particles) > 0 {
		frames++
		require.Less(t, frames, 10)
	}
	// the slower particle lives four frames, then one empty frame ends it
	assert.Equal(t, 4, frames)
	assert.Equal(t, 0, Step(particles))
}

func TestSlideshow(t *testing.T) {
	s := NewSlideshow(3)
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, 1, s.Next())
	assert.Equal(t, 2, s.Next())
	assert.Equal(t, 0, s.Next())

	empty := NewSlideshow(0)
	assert.Equal(t, -1, empty.Current())
	assert.Equal(t, -1, empty.Next())
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"stars chunk", func(c *Config) { c.Stars.ChunkSize = 0 }},
		{"bubble interval", func(c *Config) { c.Bubbles.Interval = 0 }},
		{"spawn chance", func(c *Config) { c.Comets.SpawnChance = 1.5 }},
		{"interval order", func(c *Config) { c.ShootingStars.Interval.Max = time.Millisecond }},
		{"threshold", func(c *Config) { c.Scroll.Threshold = 2 }},
		{"slide delay", func(c *Config) { c.Slideshow.SwapDelay = -time.Second }},
		{"walk interval", func(c *Config) { c.Walk.Interval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

type spawnLog struct {
	mu     sync.Mutex
	spawns []Spawn
}

func (l *spawnLog) emit(s Spawn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.spawns = append(l.spawns, s)
}

func (l *spawnLog) count(kind Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, s := range l.spawns {
		if s.Kind != kind {
			continue
		}
		switch items := s.Items.(type) {
		case []Star:
			n += len(items)
		case []Bubble:
			n += len(items)
		case []Streak:
			n += len(items)
		case []TwinklingStar:
			n += len(items)
		case []Slide:
			n += len(items)
		case []Walk:
			n += len(items)
		}
	}
	return n
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Stars.Count = 25
	cfg.Stars.ChunkDelay = time.Millisecond
	cfg.Stars.StartDelay = time.Millisecond
	cfg.Bubbles.StartDelay = time.Millisecond
	cfg.Bubbles.Initial = 2
	cfg.Bubbles.Max = 4
	cfg.Bubbles.Interval = 2 * time.Millisecond
	cfg.Comets.Stagger = time.Millisecond
	cfg.Comets.Interval = DurationRange{2 * time.Millisecond, 3 * time.Millisecond}
	cfg.Comets.SpawnChance = 1
	cfg.ShootingStars.Stagger = time.Millisecond
	cfg.ShootingStars.Interval = DurationRange{2 * time.Millisecond, 3 * time.Millisecond}
	cfg.ShootingStars.SpawnChance = 0
	cfg.Walk = WalkConfig{}
	return cfg
}

func TestScene_Run(t *testing.T) {
	cfg := fastConfig()
	scene := NewScene(cfg, rand.New(rand.NewSource(3)))
	log := &spawnLog{}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- scene.Run(ctx, log.emit) }()

	require.Eventually(t, func() bool {
		return log.count(KindComets) > cfg.Comets.Initial &&
			log.count(KindBubbles) >= cfg.Bubbles.Max &&
			log.count(KindShootingStars) == cfg.ShootingStars.Initial &&
			log.count(KindStars) == cfg.Stars.Count
	}, 2*time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	assert.Equal(t, cfg.TwinklingStars.Count, log.count(KindTwinklingStars))
	assert.Equal(t, cfg.Stars.Count, log.count(KindStars))
	// no periodic shooting stars at zero chance, only the opening ones
	assert.Equal(t, cfg.ShootingStars.Initial, log.count(KindShootingStars))
	// spawned bubbles live 15s+, so the cap holds for the whole run
	assert.Equal(t, cfg.Bubbles.Max, log.count(KindBubbles))

	log.mu.Lock()
	defer log.mu.Unlock()
	assert.Equal(t, KindTwinklingStars, log.spawns[0].Kind)
	for _, sp := range log.spawns {
		if sp.Kind != KindBubbles {
			continue
		}
		// only the opening batch stays on the page
		items := sp.Items.([]Bubble)
		assert.Equal(t, len(items) == cfg.Bubbles.Initial, sp.Permanent)
	}
	// no slideshow without WithSlides
	assert.Zero(t, log.count(KindSlide))
}

func TestScene_SpawnedBubblesExpire(t *testing.T) {
	cfg := fastConfig()
	cfg.Bubbles.Initial = 0
	cfg.Bubbles.Max = 2
	cfg.Bubbles.Duration = Range{0.003, 0.005}
	scene := NewScene(cfg, rand.New(rand.NewSource(3)))
	log := &spawnLog{}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- scene.Run(ctx, log.emit) }()

	// expired bubbles free their slots, so spawning continues past Max
	require.Eventually(t, func() bool {
		return log.count(KindBubbles) > 3*cfg.Bubbles.Max
	}, 2*time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}

func TestScene_LiveBubbles(t *testing.T) {
	scene := NewScene(DefaultConfig(), rand.New(rand.NewSource(1)))
	now := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	scene.permanentBubbles = 8
	scene.bubbleExpiry = []time.Time{now.Add(-time.Second), now, now.Add(time.Second), now.Add(time.Minute)}

	assert.Equal(t, 10, scene.liveBubbles(now))
	assert.Len(t, scene.bubbleExpiry, 2)
	assert.Equal(t, 8, scene.liveBubbles(now.Add(time.Hour)))
	assert.Empty(t, scene.bubbleExpiry)
}

func TestScene_Slides(t *testing.T) {
	cfg := Config{Slideshow: DefaultConfig().Slideshow}
	cfg.Slideshow.StartDelay = time.Millisecond
	cfg.Slideshow.Interval = 2 * time.Millisecond
	cfg.Slideshow.ParticleCount = 100
	scene := NewScene(cfg, rand.New(rand.NewSource(3))).WithSlides(3, 100, 50)
	log := &spawnLog{}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- scene.Run(ctx, log.emit) }()

	require.Eventually(t, func() bool { return log.count(KindSlide) >= 4 }, 2*time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	log.mu.Lock()
	defer log.mu.Unlock()
	var order []int
	for _, sp := range log.spawns[:4] {
		require.Equal(t, KindSlide, sp.Kind)
		slide := sp.Items.([]Slide)[0]
		assert.Equal(t, (slide.From+1)%3, slide.To)
		assert.NotEmpty(t, slide.Particles)
		assert.InDelta(t, cfg.Slideshow.SwapDelay.Seconds(), slide.SwapDelay, 1e-9)
		order = append(order, slide.To)
	}
	assert.Equal(t, []int{1, 2, 0, 1}, order)
}

func TestScene_WithSlidesNeedsTwo(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, NewScene(cfg, rand.New(rand.NewSource(1))).WithSlides(1, 100, 100).slides)
	assert.Nil(t, NewScene(cfg, rand.New(rand.NewSource(1))).WithSlides(3, 0, 100).slides)
	assert.NotNil(t, NewScene(cfg, rand.New(rand.NewSource(1))).WithSlides(2, 100, 100).slides)
}

func TestScene_Walk(t *testing.T) {
	cfg := DefaultConfig()
	scene := NewScene(cfg, rand.New(rand.NewSource(5)))
	now := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)

	w, ok := scene.walk(now)
	require.True(t, ok)
	assert.Contains(t, []string{"left", "right"}, w.Side)
	assert.Equal(t, 3.0, w.Duration)

	// a walk still under way blocks the next one
	_, ok = scene.walk(now.Add(time.Second))
	assert.False(t, ok)
	_, ok = scene.walk(now.Add(cfg.Walk.Duration))
	assert.True(t, ok)
}

func TestGenerator_WalkSides(t *testing.T) {
	cfg := DefaultConfig()
	g := newGen(cfg)
	sides := map[string]float64{}
	for i := 0; i < 100; i++ {
		w := g.Walk()
		sides[w.Side] = w.Offset
	}
	assert.Equal(t, map[string]float64{"left": cfg.Walk.LeftOffset, "right": cfg.Walk.RightInset}, sides)
}

func TestScene_RunWalks(t *testing.T) {
	cfg := Config{Walk: WalkConfig{Interval: time.Millisecond, Duration: 5 * time.Millisecond}}
	scene := NewScene(cfg, rand.New(rand.NewSource(2)))
	log := &spawnLog{}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- scene.Run(ctx, log.emit) }()

	require.Eventually(t, func() bool { return log.count(KindWalk) >= 2 }, 2*time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}

func TestScene_StarsArriveInChunks(t *testing.T) {
	cfg := fastConfig()
	scene := NewScene(cfg, rand.New(rand.NewSource(3)))
	q := scene.openingSchedule()

	var chunks []int
	for _, item := range q {
		if item.kind == KindStars {
			chunks = append(chunks, item.n)
		}
	}
	assert.Equal(t, []int{10, 10, 5}, chunks)
	for i := 1; i < len(q); i++ {
		assert.LessOrEqual(t, q[i-1].at, q[i].at)
	}
}

func TestScene_DisabledEffects(t *testing.T) {
	scene := NewScene(Config{}, rand.New(rand.NewSource(1)))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	log := &spawnLog{}
	assert.ErrorIs(t, scene.Run(ctx, log.emit), context.DeadlineExceeded)
	assert.Empty(t, log.spawns)
}
