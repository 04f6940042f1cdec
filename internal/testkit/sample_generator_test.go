package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleGenerator_Grid(t *testing.T) {
	g := NewSampleGenerator(SampleGeneratorConfig{Points: 5, XMin: 0, XMax: 4, Seed: 1})
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, g.Grid())
}

func TestSampleGenerator_Reproducible(t *testing.T) {
	config := DefaultSampleConfig()
	config.Noise = 0.5

	_, y1 := NewSampleGenerator(config).Linear(2, 3)
	_, y2 := NewSampleGenerator(config).Linear(2, 3)
	assert.Equal(t, y1, y2)

	config.Seed = 7
	_, y3 := NewSampleGenerator(config).Linear(2, 3)
	assert.NotEqual(t, y1, y3)
}

func TestSampleGenerator_Noiseless(t *testing.T) {
	g := NewSampleGenerator(SampleGeneratorConfig{Points: 3, XMin: 1, XMax: 3})
	x, y := g.Quadratic(1, 2, 3)
	assert.Equal(t, []float64{1, 2, 3}, x)
	assert.Equal(t, []float64{6, 17, 34}, y)

	s := g.Sample(2, 3)
	assert.Equal(t, 3, s.Len())
}
