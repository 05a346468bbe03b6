// Package fieldwarp 把多组特征线的映射按距离和长度加权，合成单个像素的位移
// （Beier–Neely 多线场算法）。
package fieldwarp

import (
	"math"

	"linemorph/linepair"
	mtypes "linemorph/type"
	"linemorph/vecmath"
)

// Weights 加权参数，在一次变形运行中对所有线共享
type Weights struct {
	A float64
	B float64
	P float64
}

// WeightsOf 从运行参数中取出加权参数
func WeightsOf(p mtypes.Params) Weights {
	return Weights{A: p.A, B: p.B, P: p.P}
}

// CombineDisplacement 返回 dst 在源图像中对应的位置。
// 没有可用的线（或权重全为零）时返回 dst 本身。
func CombineDisplacement(pairs []mtypes.FeatureLinePair, dst mtypes.Point2, w Weights) mtypes.Point2 {
	var total mtypes.Point2
	weightSum := 0.0

	for _, pair := range pairs {
		if pair.Degenerate() {
			continue
		}
		sample := linepair.ReverseMap(pair, dst)
		weight := Weight(pair[0], sample, w)
		if math.IsInf(weight, 1) {
			// 点恰好落在线上且 a 为零，这条线独占
			return sample.Point
		}
		if weight == 0 || math.IsNaN(weight) {
			continue
		}
		delta := dst.Sub(sample.Point)
		total = total.Add(delta.Mul(weight))
		weightSum += weight
	}

	if weightSum == 0 {
		return dst
	}
	return dst.Sub(total.Mul(1 / weightSum))
}

// Weight 计算一条线对映射结果的影响：(length^p / (a + dist))^b。
// from 为源空间中的线，sample 为映射到源空间后的结果。
func Weight(from mtypes.FeatureLine, sample mtypes.MorphSample, w Weights) float64 {
	length := from.Length()
	if length < vecmath.Epsilon {
		return 0
	}
	dist := SegmentDistance(from, sample)
	return math.Pow(math.Abs(math.Pow(length, w.P)/(w.A+dist)), w.B)
}

// SegmentDistance 映射点到线段（而非无限延长线）的距离
func SegmentDistance(from mtypes.FeatureLine, sample mtypes.MorphSample) float64 {
	switch {
	case sample.FL > 1:
		return vecmath.Distance(from.P2, sample.Point)
	case sample.FL < 0:
		return vecmath.Distance(from.P1, sample.Point)
	}
	return math.Abs(sample.D)
}
