package rank

import (
	"context"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/feature"
	"github.com/rushteam/learnrec/pipeline"
	"github.com/rushteam/learnrec/pkg/utils"
)

// SimilarityNode 用学习者已读内容的兴趣画像给候选打分（余弦相似度），按分数降序稳定排序。
// 学习者没有已读内容时不改变顺序。
type SimilarityNode struct {
	Extractor feature.ItemExtractor
}

func (n *SimilarityNode) Name() string        { return "rank.similarity" }
func (n *SimilarityNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *SimilarityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 || rctx == nil {
		return items, nil
	}
	read := rctx.ReadItems()
	if len(read) == 0 {
		return items, nil
	}

	ext := n.Extractor
	if ext == nil {
		ext = feature.NewTextExtractor()
	}
	profile := feature.Profile(ext, read)
	for _, it := range items {
		if it == nil || it.Content == nil {
			continue
		}
		it.Score = feature.Cosine(profile, ext.Extract(it.Content))
		it.PutLabel("rank_model", utils.Label{Value: "similarity", Source: utils.SourceRank})
	}

	sortByScore(items)
	return items, nil
}
