package repetition

import (
	"math"
	"time"

	"github.com/rushteam/learnrec/core"
)

// ApplyReview 根据一次新的复习结果生成更新后的记录，prev 不会被修改。
//   - prev 为 nil 时创建首条记录（ReviewCount = 1）
//   - 否则 ReviewCount + 1，TimeSpent 累加
//   - LastReviewedAt = now，MasteryLevel = score / 100
func ApplyReview(prev *core.PerformanceRecord, contentID string, score, timeSpent float64, now time.Time) (*core.PerformanceRecord, error) {
	if contentID == "" {
		return nil, core.ErrInvalidInput(core.ModuleRepetition, "content id is required")
	}
	if prev != nil && prev.ContentItemID != contentID {
		return nil, core.ErrInvalidInput(core.ModuleRepetition, "previous record belongs to %q, not %q", prev.ContentItemID, contentID)
	}

	next := &core.PerformanceRecord{
		ContentItemID:  contentID,
		Score:          score,
		TimeSpent:      timeSpent,
		LastReviewedAt: now,
		ReviewCount:    1,
		MasteryLevel:   score / 100,
	}
	if prev != nil {
		next.ReviewCount = prev.ReviewCount + 1
		next.TimeSpent = prev.TimeSpent + timeSpent
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// MinSM2Ease 是 SM-2 模型中 ease 系数的下限。
const MinSM2Ease = 1.3

// SM2Ease 返回 SM-2 风格的 ease 系数：max(1.3, 2.5 − 0.2 × (5 − quality))，quality 通常为 0~5。
func SM2Ease(quality int) float64 {
	return math.Max(MinSM2Ease, DefaultEaseFactor-0.2*float64(5-quality))
}

// SM2EaseFunc 把记录分数映射为 0~5 的回答质量后计算 SM-2 ease。
func SM2EaseFunc(rec *core.PerformanceRecord) float64 {
	return SM2Ease(int(math.Round(rec.Score / 20)))
}
