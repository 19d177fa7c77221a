package pnr

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator produces passenger name record locators.
type Generator interface {
	Generate() string
}

type LocatorGenerator struct {
	now func() time.Time
}

type Option func(*LocatorGenerator)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *LocatorGenerator) {
		g.now = now
	}
}

func NewGenerator(opts ...Option) *LocatorGenerator {
	g := &LocatorGenerator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a locator of six uppercased hex characters followed by a
// ddHHmm timestamp. Uniqueness is probabilistic only; the booking service
// checks the store and regenerates on collision.
func (g *LocatorGenerator) Generate() string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return random + g.now().Format("021504")
}

var _ Generator = (*LocatorGenerator)(nil)
