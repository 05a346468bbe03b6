package linepair

import (
	"testing"

	"github.com/stretchr/testify/assert"

	mtypes "linemorph/type"
)

const tol = 1e-9

func assertPoint(t *testing.T, want, got mtypes.Point2) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, tol, "y of %v", got)
}

func TestForwardMapTranslatedLine(t *testing.T) {
	pair := mtypes.Pair(mtypes.Line(0, 0, 1, 0), mtypes.Line(0, 1, 1, 1))
	got := ForwardMap(pair, mtypes.Point2{X: 0.5, Y: 0})
	assert.Equal(t, mtypes.Point2{X: 0.5, Y: 1}, got)
}

func TestCoincidentLinesAreIdentity(t *testing.T) {
	l := mtypes.Line(3, 4, 10, -2)
	pair := mtypes.Pair(l, l)
	points := []mtypes.Point2{
		{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 7.5, Y: 11}, {X: -20, Y: 5}, {X: 100, Y: -33},
	}
	for _, p := range points {
		assertPoint(t, p, ForwardMap(pair, p))
		assertPoint(t, p, ReverseMap(pair, p).Point)
	}
}

func TestRoundTrip(t *testing.T) {
	pairs := []mtypes.FeatureLinePair{
		mtypes.Pair(mtypes.Line(0, 0, 10, 0), mtypes.Line(5, 5, 5, 25)),
		mtypes.Pair(mtypes.Line(-3, 2, 4, 9), mtypes.Line(1, 1, 2, -6)),
		mtypes.Pair(mtypes.Line(100, 100, 101, 100), mtypes.Line(0, 0, 50, 50)),
	}
	points := []mtypes.Point2{{X: 0, Y: 0}, {X: 1.5, Y: -7}, {X: 42, Y: 17}, {X: -8, Y: 60}}
	for _, pair := range pairs {
		for _, x := range points {
			back := ForwardMap(pair, ReverseMap(pair, x).Point)
			assert.InDelta(t, x.X, back.X, 1e-6)
			assert.InDelta(t, x.Y, back.Y, 1e-6)
		}
	}
}

func TestReverseMapSample(t *testing.T) {
	// 目标线沿 x 轴长 10，源线为其两倍长度并上移 5
	pair := mtypes.Pair(mtypes.Line(0, 5, 20, 5), mtypes.Line(0, 0, 10, 0))

	tests := []struct {
		name  string
		x     mtypes.Point2
		fl, d float64
		want  mtypes.Point2
	}{
		{"start", mtypes.Point2{X: 0, Y: 0}, 0, 0, mtypes.Point2{X: 0, Y: 5}},
		{"middle above", mtypes.Point2{X: 5, Y: 2}, 0.5, 2, mtypes.Point2{X: 10, Y: 7}},
		{"past end", mtypes.Point2{X: 15, Y: -1}, 1.5, -1, mtypes.Point2{X: 30, Y: 4}},
		{"before start", mtypes.Point2{X: -5, Y: 0}, -0.5, 0, mtypes.Point2{X: -10, Y: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ReverseMap(pair, tt.x)
			assert.InDelta(t, tt.fl, s.FL, tol)
			assert.InDelta(t, tt.d, s.D, tol)
			assertPoint(t, tt.want, s.Point)
		})
	}
}

func TestForwardMapRotation(t *testing.T) {
	// 水平线映射到竖直线：线左侧（法向为正）的点随之旋转
	pair := mtypes.Pair(mtypes.Line(0, 0, 1, 0), mtypes.Line(0, 0, 0, 1))
	assertPoint(t, mtypes.Point2{X: -1, Y: 0.5}, ForwardMap(pair, mtypes.Point2{X: 0.5, Y: 1}))
}
