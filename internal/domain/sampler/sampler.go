// Package sampler produces correlated synthetic factory-floor readings.
//
// Every call draws a single uniform value b in [0,1) and derives all requested
// metrics from it, so readings of one SampleSet are consistent with each other.
package sampler

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"

	"github.com/okian/floorwatch/internal/domain/model"
)

const pcgStream = 0x9e3779b97f4a7c15

// Safety thresholds on the shared draw.
const (
	materialsAlertBelow     = 0.01
	manufacturingAlertBelow = 0.1
	packingAlertBelow       = 0.05
)

// Source is what consumers need from a sampler.
type Source interface {
	Sample(names []model.MetricName) model.SampleSet
}

// Sampler draws SampleSets. Safe for concurrent use.
type Sampler struct {
	mu   sync.Mutex
	rng  *rand.Rand
	draw func() float64
}

// New creates a Sampler seeded from crypto/rand unless WithSeed or WithDraw is given.
func New(opts ...Option) *Sampler {
	s := &Sampler{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := newSeed()
		s.rng = rand.New(rand.NewPCG(seed, seed^pcgStream)) //nolint:gosec // synthetic data, not security sensitive
	}
	if s.draw == nil {
		s.draw = s.rng.Float64
	}
	return s
}

// Sample draws one value and derives a reading for each requested metric.
func (s *Sampler) Sample(names []model.MetricName) model.SampleSet {
	s.mu.Lock()
	b := s.draw()
	s.mu.Unlock()
	return Derive(b, names)
}

// Derive computes the readings for draw b. Unknown names are skipped.
func Derive(b float64, names []model.MetricName) model.SampleSet {
	set := model.SampleSet{
		Base:     b,
		Readings: make(map[model.MetricName]model.Reading, len(names)),
	}
	for _, name := range names {
		if r, ok := Value(name, b); ok {
			set.Readings[name] = r
		}
	}
	return set
}

// Value is the per-metric formula of the synthetic data source.
func Value(name model.MetricName, b float64) (model.Reading, bool) {
	switch name {
	case model.CycleTime:
		return model.Number(6 + b), true
	case model.TimeToComplete:
		return model.Number(8 - b*2), true
	case model.SafetyMaterials:
		return threshold(b, materialsAlertBelow, model.Red, model.Orange), true
	case model.SafetyManufacturing:
		return threshold(b, manufacturingAlertBelow, model.Orange, model.Green), true
	case model.SafetyPacking:
		return threshold(b, packingAlertBelow, model.Yellow, model.Orange), true
	case model.PrecursorLevel:
		return model.Number(95 + (b-0.5)*5), true
	case model.ReagentLevel:
		return model.Number(50 + (b-0.5)*5), true
	case model.CatalystLevel:
		return model.Number(73 + (b-0.5)*10), true
	case model.PackagingLevel:
		return model.Number(88 + (b-0.5)*10), true
	case model.ProductionLevels:
		return model.Number((b - 0.01) * 5), true
	default:
		return model.Reading{}, false
	}
}

func threshold(b, below float64, alert, normal model.Color) model.Reading {
	if b < below {
		return model.Categorical(alert)
	}
	return model.Categorical(normal)
}

// newSeed reads a seed from crypto/rand, falling back to the runtime source.
func newSeed() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(buf[:])
}
