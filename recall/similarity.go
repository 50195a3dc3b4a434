package recall

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pipeline"
)

// SimilarityRecall 用 Scorer 对目录打分召回：已读集合取自学习者快照，候选为整个目录。
// 学习者没有历史时，Scorer 返回冷启动顺序。
// WarmOnly 为 true 时学习者没有历史直接返回空，交给冷启动路径处理。
// 有历史时同分条目按与 rctx.TargetDifficulty 的距离升序，再按目录顺序。
// SimilarityRecall 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type SimilarityRecall struct {
	Scorer   Scorer
	WarmOnly bool
}

func (r *SimilarityRecall) Name() string        { return "recall.similarity" }
func (r *SimilarityRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *SimilarityRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *SimilarityRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || len(rctx.Catalog) == 0 {
		return nil, nil
	}
	if r.WarmOnly && (rctx.Learner == nil || !rctx.Learner.HasHistory()) {
		return nil, nil
	}
	scorer := r.Scorer
	if scorer == nil {
		scorer = NewCosineScorer(nil)
	}

	read := rctx.ReadItems()
	recs, err := scorer.Score(ctx, read, rctx.Catalog)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*core.ContentItem, len(rctx.Catalog))
	for _, c := range rctx.Catalog {
		if c != nil {
			byID[c.ID] = c
		}
	}
	out := make([]*core.Item, 0, len(recs))
	for _, rec := range recs {
		c, ok := byID[rec.ContentItemID]
		if !ok {
			continue
		}
		it := newRecallItem(c, rec.Reason)
		it.Score = rec.RelevanceScore
		out = append(out, it)
	}
	if len(read) > 0 {
		breakTiesByTarget(out, rctx.TargetDifficulty)
	}
	return out, nil
}

// breakTiesByTarget 稳定排序：分数降序，同分时离目标难度近的在前。
func breakTiesByTarget(items []*core.Item, target float64) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return math.Abs(items[i].Difficulty()-target) < math.Abs(items[j].Difficulty()-target)
	})
}
