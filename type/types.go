package mtypes

import (
	"github.com/golang/geo/r2"

	"linemorph/vecmath"
)

// Point2 二维浮点坐标
type Point2 = r2.Point

// FeatureLine 某一幅图像坐标空间中的一条特征线
type FeatureLine struct {
	P1 Point2
	P2 Point2
}

// Line 用端点坐标构造特征线
func Line(x1, y1, x2, y2 float64) FeatureLine {
	return FeatureLine{P1: Point2{X: x1, Y: y1}, P2: Point2{X: x2, Y: y2}}
}

// Vector 返回 P2 - P1
func (l FeatureLine) Vector() Point2 {
	return l.P2.Sub(l.P1)
}

func (l FeatureLine) Length() float64 {
	return vecmath.Distance(l.P1, l.P2)
}

// Degenerate 长度接近零的线无法作为参考线
func (l FeatureLine) Degenerate() bool {
	return l.Length() < vecmath.Epsilon
}

// Translate 平移整条线
func (l FeatureLine) Translate(d Point2) FeatureLine {
	return FeatureLine{P1: l.P1.Add(d), P2: l.P2.Add(d)}
}

// FeatureLinePair 一组对应关系：[0] 为源图像中的线，[1] 为目标图像中的线
type FeatureLinePair [2]FeatureLine

// Pair 构造一组对应线
func Pair(src, dst FeatureLine) FeatureLinePair {
	return FeatureLinePair{src, dst}
}

// Swapped 交换源线和目标线，用于反向变形
func (p FeatureLinePair) Swapped() FeatureLinePair {
	return FeatureLinePair{p[1], p[0]}
}

// Degenerate 任一条线退化即整组不可用
func (p FeatureLinePair) Degenerate() bool {
	return p[0].Degenerate() || p[1].Degenerate()
}

// SwapAll 对每一组对应线做交换，保持原有顺序
func SwapAll(pairs []FeatureLinePair) []FeatureLinePair {
	out := make([]FeatureLinePair, len(pairs))
	for i, p := range pairs {
		out[i] = p.Swapped()
	}
	return out
}

// MorphSample 单条线映射的结果
type MorphSample struct {
	Point Point2  // 映射后的坐标
	D     float64 // 到参考线的有符号垂直距离
	FL    float64 // 沿参考线的归一化位置，线段内为 0..1
}
