// Package vecmath 提供特征线变形用到的二维向量运算
package vecmath

import (
	"math"

	"github.com/golang/geo/r2"
)

// Epsilon 小于该长度的向量视为零向量
const Epsilon = 1e-9

// Project 将 v 投影到 u 上，返回投影向量
func Project(v, u r2.Point) r2.Point {
	return u.Mul(v.Dot(u) / u.Dot(u))
}

// ScalarProject 返回 v 在 u 方向上的分量长度
func ScalarProject(v, u r2.Point) float64 {
	return v.Dot(u) / u.Norm()
}

// PerpendicularDistance 返回 v 沿 u 方向的有符号距离。
// u 一般是参考线的法向量，此时结果就是到参考线的垂直偏移。
func PerpendicularDistance(v, u r2.Point) float64 {
	return ScalarProject(v, u)
}

// Normal 返回逆时针旋转 90° 的向量 (-y, x)
func Normal(v r2.Point) r2.Point {
	return v.Ortho()
}

// Distance 两点间欧氏距离
func Distance(p, q r2.Point) float64 {
	return q.Sub(p).Norm()
}

// Lerp 在 a 与 b 之间线性插值
func Lerp(a, b r2.Point, t float64) r2.Point {
	return a.Add(b.Sub(a).Mul(t))
}

// IsZero 判断向量长度是否可忽略
func IsZero(v r2.Point) bool {
	return v.Norm() < Epsilon
}

// IsFinite 判断坐标是否为有限值
func IsFinite(p r2.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
