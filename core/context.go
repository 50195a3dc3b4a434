package core

import (
	"time"

	"github.com/rushteam/learnrec/pkg/utils"
)

// RecommendContext 承载学习者/场景/请求信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	LearnerID string
	Scene     string

	// Now 是本次请求的时间基准，所有时间窗口判断都基于它（保证确定性）。
	Now time.Time

	// Learner 是学习者历史快照
	Learner *LearnerSnapshot

	// Catalog 是内容目录快照（只读）
	Catalog []*ContentItem

	// MasteryLevel 当前掌握度 [0,1]
	MasteryLevel float64

	// TargetDifficulty 目标难度，由 rank.TargetDifficulty 计算
	TargetDifficulty float64

	// WeakTopics 薄弱主题（最弱在前）
	WeakTopics []string

	// DueCheck 为 true 时排除已掌握的内容
	DueCheck bool

	// Limit 本次请求的结果上限，> 0 时由 rerank.TopNNode 截断
	Limit int

	// Labels 是学习者级标签，可驱动整个 Pipeline 行为
	// 例如：cold_start、weak_path 等
	Labels map[string]utils.Label

	// Params 请求级上下文参数
	Params map[string]any
}

// PutLabel 写入学习者级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取学习者级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// IsWeakTopic 检查主题是否属于薄弱主题。
func (rctx *RecommendContext) IsWeakTopic(topic string) bool {
	for _, t := range rctx.WeakTopics {
		if t == topic {
			return true
		}
	}
	return false
}

// ReadItems 返回目录中学习者已有记录的条目（保持目录顺序）。
func (rctx *RecommendContext) ReadItems() []*ContentItem {
	out := make([]*ContentItem, 0)
	if rctx.Learner == nil {
		return out
	}
	for _, c := range rctx.Catalog {
		if rctx.Learner.HasRead(c.ID) {
			out = append(out, c)
		}
	}
	return out
}
