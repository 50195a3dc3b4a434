package recall

import (
	"context"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/feature"
)

// CosineScorer 是基于内容特征的打分策略（Content-Based）。
//
// 核心思想："学习者读过的内容构成兴趣画像，推荐与画像最相似的未读内容"
//   - 画像 = 已读内容特征向量按 term 求和
//   - 分数 = cosine(画像, 候选特征)，任一向量模长为 0 时为 0
type CosineScorer struct {
	Extractor feature.ItemExtractor
}

// NewCosineScorer 创建余弦打分器，ext 为空时使用默认文本抽取器。
func NewCosineScorer(ext feature.ItemExtractor) *CosineScorer {
	if ext == nil {
		ext = feature.NewTextExtractor()
	}
	return &CosineScorer{Extractor: ext}
}

func (s *CosineScorer) Name() string { return "cosine" }

func (s *CosineScorer) Score(
	ctx context.Context,
	read, candidates []*core.ContentItem,
) ([]core.Recommendation, error) {
	if err := validateItems(read); err != nil {
		return nil, err
	}
	if err := validateItems(candidates); err != nil {
		return nil, err
	}
	if !hasRead(read) {
		return ColdStartOrder(candidates), nil
	}

	profile := feature.Profile(s.Extractor, read)
	pool := unread(read, candidates)
	out := make([]core.Recommendation, 0, len(pool))
	for _, c := range pool {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, core.Recommendation{
			ContentItemID:  c.ID,
			RelevanceScore: feature.Cosine(profile, s.Extractor.Extract(c)),
			Reason:         s.Name(),
		})
	}
	return rankDesc(out), nil
}
