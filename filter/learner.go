package filter

import (
	"context"
	"math"
	"time"

	"github.com/rushteam/learnrec/core"
)

// bandEpsilon 让难度带边界（距离恰好等于 Band）在浮点误差下仍然保留。
const bandEpsilon = 1e-9

// WeakTopicFilter 过滤不属于任何薄弱主题的条目。没有薄弱主题时全部过滤。
type WeakTopicFilter struct{}

func (f *WeakTopicFilter) Name() string { return "filter.weak_topic" }

func (f *WeakTopicFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Content == nil || rctx == nil {
		return true, nil
	}
	for _, topic := range item.Content.AllTopics() {
		if rctx.IsWeakTopic(topic) {
			return false, nil
		}
	}
	return true, nil
}

// DifficultyBandFilter 过滤与目标难度距离超过 Band 的条目（边界包含：距离 == Band 保留）。
type DifficultyBandFilter struct {
	Band float64
}

// NewDifficultyBandFilter 创建难度带过滤器，band <= 0 时使用默认值 0.2。
func NewDifficultyBandFilter(band float64) *DifficultyBandFilter {
	if band <= 0 {
		band = 0.2
	}
	return &DifficultyBandFilter{Band: band}
}

func (f *DifficultyBandFilter) Name() string { return "filter.difficulty_band" }

func (f *DifficultyBandFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Content == nil || rctx == nil {
		return true, nil
	}
	dist := math.Abs(item.Content.Difficulty - rctx.TargetDifficulty)
	return dist > f.Band+bandEpsilon, nil
}

// RecentlyReviewedFilter 过滤在排除窗口内（相对 rctx.Now）复习过的条目。
type RecentlyReviewedFilter struct {
	Window time.Duration
}

// NewRecentlyReviewedFilter 创建近期复习过滤器，window <= 0 时使用默认值 24h。
func NewRecentlyReviewedFilter(window time.Duration) *RecentlyReviewedFilter {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &RecentlyReviewedFilter{Window: window}
}

func (f *RecentlyReviewedFilter) Name() string { return "filter.recently_reviewed" }

func (f *RecentlyReviewedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.Learner == nil {
		return false, nil
	}
	return rctx.Learner.ReviewedWithin(item.ID, rctx.Now, f.Window), nil
}

// MasteredFilter 过滤学习者已掌握（mastery >= Threshold）的条目。
// 只在请求了 due-check（rctx.DueCheck）时生效；Always 为 true 时始终生效。
type MasteredFilter struct {
	Threshold float64
	Always    bool
}

func (f *MasteredFilter) Name() string { return "filter.mastered" }

func (f *MasteredFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.Learner == nil {
		return false, nil
	}
	if !f.Always && !rctx.DueCheck {
		return false, nil
	}
	rec, ok := rctx.Learner.Record(item.ID)
	if !ok {
		return false, nil
	}
	threshold := f.Threshold
	if threshold <= 0 {
		threshold = core.MasteredThreshold
	}
	return rec.Mastery() >= threshold, nil
}
