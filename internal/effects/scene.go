package effects

import (
	"context"
	"sort"
	"time"
)

// Kind names an effect.
type Kind string

const (
	KindStars          Kind = "stars"
	KindBubbles        Kind = "bubbles"
	KindComets         Kind = "comets"
	KindShootingStars  Kind = "shooting_stars"
	KindTwinklingStars Kind = "twinkling_stars"
	KindSlide          Kind = "slide"
	KindWalk           Kind = "walk"
)

// Kinds lists every effect kind.
func Kinds() []Kind {
	return []Kind{KindStars, KindBubbles, KindComets, KindShootingStars, KindTwinklingStars}
}

// Spawn is a batch of new elements for the page to render. Items is a
// slice of Star, Bubble, Streak, TwinklingStar, Slide or Walk depending on
// Kind. Permanent items stay on the page until it is closed.
type Spawn struct {
	Kind      Kind `json:"kind"`
	Items     any  `json:"items"`
	Permanent bool `json:"permanent,omitempty"`
}

// Batch draws n elements of the given kind.
func (g *Generator) Batch(kind Kind, n int) (Spawn, bool) {
	switch kind {
	case KindStars:
		return Spawn{Kind: kind, Items: g.Stars(n)}, true
	case KindBubbles:
		return Spawn{Kind: kind, Items: g.Bubbles(n, true)}, true
	case KindComets:
		return Spawn{Kind: kind, Items: g.Comets(n)}, true
	case KindShootingStars:
		return Spawn{Kind: kind, Items: g.ShootingStars(n)}, true
	case KindTwinklingStars:
		return Spawn{Kind: kind, Items: g.TwinklingStars(n)}, true
	}
	return Spawn{}, false
}

type scheduled struct {
	at   time.Duration
	kind Kind
	n    int
}

// Scene drives the cadence of the page's effects for one viewer.
type Scene struct {
	cfg Config
	gen *Generator

	// permanent bubbles never expire; spawned ones do.
	permanentBubbles int
	bubbleExpiry     []time.Time

	slides        *Slideshow
	width, height int

	walking   bool
	walkUntil time.Time
}

// NewScene returns a scene drawing from rng, which must not be shared.
func NewScene(cfg Config, rng Rand) *Scene {
	return &Scene{cfg: cfg, gen: NewGenerator(cfg, rng)}
}

// WithSlides enables slide changes for a slideshow of count slides drawn
// on a width x height canvas. A count below two leaves it disabled.
func (s *Scene) WithSlides(count, width, height int) *Scene {
	if count < 2 || width <= 0 || height <= 0 {
		return s
	}
	s.slides = NewSlideshow(count)
	s.width, s.height = width, height
	return s
}

// Run emits the opening batches and then periodic spawns until ctx is
// done. emit is called from Run's goroutine only.
func (s *Scene) Run(ctx context.Context, emit func(Spawn)) error {
	start := time.Now()

	if n := s.cfg.TwinklingStars.Count; n > 0 {
		emit(Spawn{Kind: KindTwinklingStars, Items: s.gen.TwinklingStars(n)})
	}

	queue := s.openingSchedule()
	var openC <-chan time.Time
	var opening *time.Timer
	if len(queue) > 0 {
		opening = time.NewTimer(queue[0].at)
		defer opening.Stop()
		openC = opening.C
	}

	bubbleC := s.ticker(s.cfg.Bubbles.Interval, s.cfg.Bubbles.Max > 0)
	cometC := s.ticker(s.cfg.Comets.Interval.draw(s.gen.rng), s.cfg.Comets.SpawnChance > 0)
	shootingC := s.ticker(s.cfg.ShootingStars.Interval.draw(s.gen.rng), s.cfg.ShootingStars.SpawnChance > 0)
	walkC := s.ticker(s.cfg.Walk.Interval, s.cfg.Walk.Duration > 0)
	defer bubbleC.stop()
	defer cometC.stop()
	defer shootingC.stop()
	defer walkC.stop()

	// the slideshow waits StartDelay, then changes every Interval
	var slideStart <-chan time.Time
	var slideC tick
	defer func() { slideC.stop() }()
	if s.slides != nil && s.cfg.Slideshow.Interval > 0 {
		t := time.NewTimer(s.cfg.Slideshow.StartDelay)
		defer t.Stop()
		slideStart = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-openC:
			elapsed := time.Since(start)
			for len(queue) > 0 && queue[0].at <= elapsed {
				s.emitOpening(queue[0], emit)
				queue = queue[1:]
			}
			if len(queue) == 0 {
				openC = nil
				continue
			}
			opening.Reset(queue[0].at - elapsed)

		case now := <-bubbleC.c:
			if s.liveBubbles(now) >= s.cfg.Bubbles.Max {
				continue
			}
			b := s.gen.Bubbles(1, false)
			s.bubbleExpiry = append(s.bubbleExpiry, now.Add(seconds(b[0].Duration)))
			emit(Spawn{Kind: KindBubbles, Items: b})

		case <-cometC.c:
			if s.gen.spawn(s.cfg.Comets.SpawnChance) {
				emit(Spawn{Kind: KindComets, Items: s.gen.Comets(1)})
			}

		case <-shootingC.c:
			if s.gen.spawn(s.cfg.ShootingStars.SpawnChance) {
				emit(Spawn{Kind: KindShootingStars, Items: s.gen.ShootingStars(1)})
			}

		case <-slideStart:
			slideStart = nil
			slideC = s.ticker(s.cfg.Slideshow.Interval, true)

		case <-slideC.c:
			emit(Spawn{Kind: KindSlide, Items: []Slide{s.nextSlide()}})

		case now := <-walkC.c:
			if w, ok := s.walk(now); ok {
				emit(Spawn{Kind: KindWalk, Items: []Walk{w}})
			}
		}
	}
}

func (s *Scene) openingSchedule() []scheduled {
	var q []scheduled

	stars := s.cfg.Stars
	for i, done := 0, 0; done < stars.Count; i++ {
		n := min(stars.ChunkSize, stars.Count-done)
		q = append(q, scheduled{at: stars.StartDelay + time.Duration(i)*stars.ChunkDelay, kind: KindStars, n: n})
		done += n
	}
	if n := s.cfg.Bubbles.Initial; n > 0 {
		q = append(q, scheduled{at: s.cfg.Bubbles.StartDelay, kind: KindBubbles, n: n})
	}
	for i := 0; i < s.cfg.Comets.Initial; i++ {
		q = append(q, scheduled{at: time.Duration(i) * s.cfg.Comets.Stagger, kind: KindComets, n: 1})
	}
	for i := 0; i < s.cfg.ShootingStars.Initial; i++ {
		q = append(q, scheduled{at: time.Duration(i) * s.cfg.ShootingStars.Stagger, kind: KindShootingStars, n: 1})
	}

	sort.SliceStable(q, func(i, j int) bool { return q[i].at < q[j].at })
	return q
}

func (s *Scene) emitOpening(item scheduled, emit func(Spawn)) {
	spawn, _ := s.gen.Batch(item.kind, item.n)
	if item.kind == KindBubbles {
		s.permanentBubbles += item.n
		spawn.Permanent = true
	}
	emit(spawn)
}

// nextSlide dissolves the visible slide and advances to the next one.
func (s *Scene) nextSlide() Slide {
	from := s.slides.Current()
	return Slide{
		From:      from,
		To:        s.slides.Next(),
		SwapDelay: s.cfg.Slideshow.SwapDelay.Seconds(),
		Particles: s.gen.Dissolve(s.width, s.height),
	}
}

// walk starts a stroll unless one is still under way.
func (s *Scene) walk(now time.Time) (Walk, bool) {
	if s.walking && now.Before(s.walkUntil) {
		return Walk{}, false
	}
	w := s.gen.Walk()
	s.walking = true
	s.walkUntil = now.Add(s.cfg.Walk.Duration)
	return w, true
}

func (s *Scene) liveBubbles(now time.Time) int {
	live := s.bubbleExpiry[:0]
	for _, exp := range s.bubbleExpiry {
		if exp.After(now) {
			live = append(live, exp)
		}
	}
	s.bubbleExpiry = live
	return s.permanentBubbles + len(live)
}

type tick struct {
	t *time.Ticker
	c <-chan time.Time
}

func (s *Scene) ticker(d time.Duration, enabled bool) tick {
	if !enabled || d <= 0 {
		return tick{}
	}
	t := time.NewTicker(d)
	return tick{t: t, c: t.C}
}

func (t tick) stop() {
	if t.t != nil {
		t.t.Stop()
	}
}
