// Package signal provides the simulated delivery signals used by the
// fallback skill analyzer and the body-language estimator. No real
// audio or vision inference happens here; a seedable random source
// stands in for those models so the rest of the pipeline stays
// deterministic and testable.
package signal

import (
	"math/rand"
	"sync"
)

// Expressions is the fixed set the body-language estimator picks from.
var Expressions = []string{"confident", "nervous", "smiling", "distracted", "neutral"}

// Source supplies simulated delivery signals.
type Source interface {
	// PaceWPM returns a simulated speaking pace in words per minute (90-180).
	PaceWPM() float64
	// Pauses returns a simulated count of long pauses (0-4).
	Pauses() int
	// Expression returns one of Expressions.
	Expression() string
	// EyeContact reports whether the candidate held eye contact.
	EyeContact() bool
}

// RandomSource is a seedable Source safe for concurrent use.
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a RandomSource seeded with the given value.
func NewRandom(seed int64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // simulated signals, not security-sensitive
}

func (s *RandomSource) PaceWPM() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()*(180-90) + 90
}

func (s *RandomSource) Pauses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(5)
}

func (s *RandomSource) Expression() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Expressions[s.rng.Intn(len(Expressions))]
}

func (s *RandomSource) EyeContact() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() > 0.3
}

// Fixed is a Source returning constant values, for tests.
type Fixed struct {
	WPM    float64
	Breaks int
	Expr   string
	Eye    bool
}

func (f Fixed) PaceWPM() float64   { return f.WPM }
func (f Fixed) Pauses() int        { return f.Breaks }
func (f Fixed) Expression() string { return f.Expr }
func (f Fixed) EyeContact() bool   { return f.Eye }
