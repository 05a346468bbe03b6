// Package tween 在帧序列上对特征线做线性插值
package tween

import (
	mtypes "linemorph/type"
	"linemorph/vecmath"
)

// Fraction 返回第 i 帧的插值比例。
// 默认 i/frameCount，最后一帧停在 (n-1)/n；inclusive 时为 i/(frameCount-1)。
func Fraction(i, frameCount int, inclusive bool) float64 {
	if inclusive {
		if frameCount <= 1 {
			return 0
		}
		return float64(i) / float64(frameCount-1)
	}
	if frameCount <= 0 {
		return 0
	}
	return float64(i) / float64(frameCount)
}

// At 生成比例 t 处的一帧对应线：[0] 保持原始源线，[1] 为插值后的线
func At(pairs []mtypes.FeatureLinePair, t float64) []mtypes.FeatureLinePair {
	out := make([]mtypes.FeatureLinePair, len(pairs))
	for i, p := range pairs {
		out[i] = mtypes.FeatureLinePair{p[0], Line(p[0], p[1], t)}
	}
	return out
}

// Line 对两条线的对应端点分别插值
func Line(from, to mtypes.FeatureLine, t float64) mtypes.FeatureLine {
	return mtypes.FeatureLine{
		P1: vecmath.Lerp(from.P1, to.P1, t),
		P2: vecmath.Lerp(from.P2, to.P2, t),
	}
}

// Tween 返回每一帧的对应线，比例为 i/frameCount
func Tween(pairs []mtypes.FeatureLinePair, frameCount int) [][]mtypes.FeatureLinePair {
	return generate(pairs, frameCount, false)
}

// TweenInclusive 与 Tween 相同，但最后一帧到达目标线
func TweenInclusive(pairs []mtypes.FeatureLinePair, frameCount int) [][]mtypes.FeatureLinePair {
	return generate(pairs, frameCount, true)
}

func generate(pairs []mtypes.FeatureLinePair, frameCount int, inclusive bool) [][]mtypes.FeatureLinePair {
	if frameCount <= 0 {
		return nil
	}
	frames := make([][]mtypes.FeatureLinePair, frameCount)
	for i := range frameCount {
		frames[i] = At(pairs, Fraction(i, frameCount, inclusive))
	}
	return frames
}
