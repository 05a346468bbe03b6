package vecmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	got := Project(r2.Point{X: 3, Y: 4}, r2.Point{X: 2, Y: 0})
	assert.InDelta(t, 3, got.X, 1e-12)
	assert.InDelta(t, 0, got.Y, 1e-12)
}

func TestScalarProject(t *testing.T) {
	tests := []struct {
		name string
		v, u r2.Point
		want float64
	}{
		{"along", r2.Point{X: 3, Y: 4}, r2.Point{X: 10, Y: 0}, 3},
		{"against", r2.Point{X: -2, Y: 1}, r2.Point{X: 1, Y: 0}, -2},
		{"diagonal", r2.Point{X: 1, Y: 1}, r2.Point{X: 1, Y: 1}, math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScalarProject(tt.v, tt.u), 1e-12)
		})
	}
}

func TestPerpendicularDistanceSign(t *testing.T) {
	line := r2.Point{X: 1, Y: 0}
	n := Normal(line)
	assert.InDelta(t, 2, PerpendicularDistance(r2.Point{X: 5, Y: 2}, n), 1e-12)
	assert.InDelta(t, -2, PerpendicularDistance(r2.Point{X: 5, Y: -2}, n), 1e-12)
}

func TestNormal(t *testing.T) {
	assert.Equal(t, r2.Point{X: -2, Y: 1}, Normal(r2.Point{X: 1, Y: 2}))
	v := r2.Point{X: 3, Y: -7}
	assert.InDelta(t, 0, v.Dot(Normal(v)), 1e-12)
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5, Distance(r2.Point{X: 1, Y: 1}, r2.Point{X: 4, Y: 5}), 1e-12)
	assert.Zero(t, Distance(r2.Point{X: 2, Y: 2}, r2.Point{X: 2, Y: 2}))
}

func TestLerp(t *testing.T) {
	a, b := r2.Point{X: 0, Y: 10}, r2.Point{X: 10, Y: 0}
	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	assert.Equal(t, r2.Point{X: 5, Y: 5}, Lerp(a, b, 0.5))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(r2.Point{X: 1, Y: -1}))
	assert.False(t, IsFinite(r2.Point{X: math.NaN(), Y: 0}))
	assert.False(t, IsFinite(r2.Point{X: 0, Y: math.Inf(-1)}))
}
