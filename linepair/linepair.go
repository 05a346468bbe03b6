// Package linepair 实现单组特征线之间的点映射（Beier–Neely 场变形的基本操作）。
//
// 两个方向都是 (pair, point) 的纯函数。参考线长度为零时结果无意义，
// 调用方需要先排除退化的线。
package linepair

import (
	mtypes "linemorph/type"
	"linemorph/vecmath"
)

// ForwardMap 把源线 pair[0] 坐标系中的点映射到目标线 pair[1] 坐标系
func ForwardMap(pair mtypes.FeatureLinePair, src mtypes.Point2) mtypes.Point2 {
	return mapAcross(pair[0], pair[1], src).Point
}

// ReverseMap 把目标线 pair[1] 坐标系中的点映射回源线 pair[0] 坐标系，
// 同时返回 d 与 fl 供加权步骤计算到线段的距离。
func ReverseMap(pair mtypes.FeatureLinePair, dst mtypes.Point2) mtypes.MorphSample {
	return mapAcross(pair[1], pair[0], dst)
}

// mapAcross 以 ref 为参考线求 x 的 (fl, d)，再在 to 上重建对应点
func mapAcross(ref, to mtypes.FeatureLine, x mtypes.Point2) mtypes.MorphSample {
	pq := ref.Vector()
	px := x.Sub(ref.P1)

	fl := vecmath.ScalarProject(px, pq) / pq.Norm()
	d := vecmath.PerpendicularDistance(px, vecmath.Normal(pq))

	pqPrime := to.Vector()
	n := vecmath.Normal(pqPrime)
	mapped := to.P1.Add(pqPrime.Mul(fl)).Add(n.Mul(d / n.Norm()))

	return mtypes.MorphSample{Point: mapped, D: d, FL: fl}
}
