package fieldwarp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"linemorph/linepair"
	mtypes "linemorph/type"
)

var defaults = WeightsOf(mtypes.DefaultParams())

func TestEmptyIsIdentity(t *testing.T) {
	for _, p := range []mtypes.Point2{{X: 0, Y: 0}, {X: -4.5, Y: 3}, {X: 1e6, Y: -1e6}} {
		assert.Equal(t, p, CombineDisplacement(nil, p, defaults))
		assert.Equal(t, p, CombineDisplacement([]mtypes.FeatureLinePair{}, p, defaults))
	}
}

func TestSinglePairMatchesReverseMap(t *testing.T) {
	pair := mtypes.Pair(mtypes.Line(2, 2, 8, 3), mtypes.Line(1, 5, 9, 4))
	dst := mtypes.Point2{X: 4, Y: 7}
	want := linepair.ReverseMap(pair, dst).Point
	got := CombineDisplacement([]mtypes.FeatureLinePair{pair}, dst, defaults)
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}

func TestCoincidentPairsAreIdentity(t *testing.T) {
	pairs := []mtypes.FeatureLinePair{
		mtypes.Pair(mtypes.Line(0, 0, 10, 0), mtypes.Line(0, 0, 10, 0)),
		mtypes.Pair(mtypes.Line(3, 3, 3, 9), mtypes.Line(3, 3, 3, 9)),
	}
	dst := mtypes.Point2{X: 6, Y: 2}
	got := CombineDisplacement(pairs, dst, defaults)
	assert.InDelta(t, dst.X, got.X, 1e-9)
	assert.InDelta(t, dst.Y, got.Y, 1e-9)
}

func TestUniformTranslation(t *testing.T) {
	// 所有线都平移同样的量，加权平均仍是这个平移
	shift := mtypes.Point2{X: 3, Y: -2}
	a := mtypes.Line(0, 0, 10, 0)
	b := mtypes.Line(0, 0, 0, 10)
	pairs := []mtypes.FeatureLinePair{
		mtypes.Pair(a, a.Translate(shift)),
		mtypes.Pair(b, b.Translate(shift)),
	}
	dst := mtypes.Point2{X: 5, Y: 5}
	got := CombineDisplacement(pairs, dst, Weights{A: 0.5, B: 2, P: 1})
	assert.InDelta(t, dst.X-shift.X, got.X, 1e-9)
	assert.InDelta(t, dst.Y-shift.Y, got.Y, 1e-9)
}

func TestCloserLineDominates(t *testing.T) {
	near := mtypes.Pair(mtypes.Line(0, 0, 10, 0), mtypes.Line(0, 1, 10, 1))
	far := mtypes.Pair(mtypes.Line(0, 100, 10, 100), mtypes.Line(0, 90, 10, 90))
	dst := mtypes.Point2{X: 5, Y: 1}
	got := CombineDisplacement([]mtypes.FeatureLinePair{near, far}, dst, defaults)
	// near 单独作用时 dst 映射到 (5, 0)
	assert.InDelta(t, 5, got.X, 1e-6)
	assert.InDelta(t, 0, got.Y, 0.05)
}

func TestDegeneratePairsIgnored(t *testing.T) {
	degenerate := mtypes.Pair(mtypes.Line(4, 4, 4, 4), mtypes.Line(1, 1, 5, 5))
	dst := mtypes.Point2{X: 2, Y: 3}
	got := CombineDisplacement([]mtypes.FeatureLinePair{degenerate}, dst, defaults)
	assert.Equal(t, dst, got)

	zeroTarget := mtypes.Pair(mtypes.Line(0, 0, 1, 0), mtypes.Line(2, 2, 2, 2))
	got = CombineDisplacement([]mtypes.FeatureLinePair{zeroTarget}, dst, defaults)
	assert.Equal(t, dst, got)
}

func TestZeroSmoothingOnLine(t *testing.T) {
	pair := mtypes.Pair(mtypes.Line(0, 0, 10, 0), mtypes.Line(0, 2, 10, 2))
	other := mtypes.Pair(mtypes.Line(0, 50, 10, 50), mtypes.Line(0, 40, 10, 40))
	got := CombineDisplacement([]mtypes.FeatureLinePair{other, pair}, mtypes.Point2{X: 5, Y: 2}, Weights{A: 0, B: 2})
	assert.False(t, math.IsNaN(got.X) || math.IsNaN(got.Y))
	assert.InDelta(t, 5, got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)
}

func TestSegmentDistance(t *testing.T) {
	from := mtypes.Line(0, 0, 10, 0)
	tests := []struct {
		name   string
		sample mtypes.MorphSample
		want   float64
	}{
		{"inside uses d", mtypes.MorphSample{Point: mtypes.Point2{X: 5, Y: -3}, D: -3, FL: 0.5}, 3},
		{"past end", mtypes.MorphSample{Point: mtypes.Point2{X: 13, Y: 4}, D: 4, FL: 1.3}, 5},
		{"before start", mtypes.MorphSample{Point: mtypes.Point2{X: -6, Y: 8}, D: 8, FL: -0.6}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SegmentDistance(from, tt.sample), 1e-12)
		})
	}
}

func TestWeight(t *testing.T) {
	from := mtypes.Line(0, 0, 4, 0)
	s := mtypes.MorphSample{Point: mtypes.Point2{X: 2, Y: 1}, D: 1, FL: 0.5}
	// p=0: (1/(a+1))^b
	assert.InDelta(t, 1/(1.01*1.01), Weight(from, s, defaults), 1e-12)
	// p=1, b=1: 4/(a+1)
	assert.InDelta(t, 4/1.5, Weight(from, s, Weights{A: 0.5, B: 1, P: 1}), 1e-12)
	assert.Zero(t, Weight(mtypes.Line(1, 1, 1, 1), s, defaults))
}
