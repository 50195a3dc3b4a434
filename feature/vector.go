package feature

import (
	"math"
	"sort"
)

// Vector 是稀疏特征向量：term → 权重。
type Vector map[string]float64

// Add 把 other 按权重累加到 v（原地修改）。
func (v Vector) Add(other Vector) {
	for k, w := range other {
		v[k] += w
	}
}

// Dot 计算点积，只遍历较小的一侧。
func (v Vector) Dot(other Vector) float64 {
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for k, w := range a {
		if w2, ok := b[k]; ok {
			sum += w * w2
		}
	}
	return sum
}

// Norm 返回 L2 范数。
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Clone 返回深拷贝。
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, w := range v {
		out[k] = w
	}
	return out
}

// Terms 返回排序后的 term 列表（用于确定性输出）。
func (v Vector) Terms() []string {
	out := make([]string, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Cosine 计算余弦相似度。任一向量模长为 0 时返回 0（不会产生 NaN）。
// 结果被截断到 [-1, 1]，消除浮点误差。
func Cosine(a, b Vector) float64 {
	normA, normB := a.Norm(), b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := a.Dot(b) / (normA * normB)
	switch {
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	}
	return sim
}
