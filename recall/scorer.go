package recall

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/learnrec/core"
)

// Scorer 是相似度打分策略接口（策略模式）。
//
// 约定：
//   - 排除 read 中已出现的候选（已读集合 = 学习者有记录的全部内容）
//   - read 为空时返回冷启动顺序（ColdStartOrder），不调用打分公式
//   - 按分数降序返回，分数相同时保持候选的输入顺序
//
// 实现：
//   - CosineScorer：兴趣画像与候选特征向量的余弦相似度（默认）
//   - HeuristicScorer：难度接近度 + 主题匹配 + 词重叠 + 挑战加成
type Scorer interface {
	Name() string
	Score(ctx context.Context, read, candidates []*core.ContentItem) ([]core.Recommendation, error)
}

const (
	ReasonColdStart = "cold_start"
	ReasonWeakTopic = "weak_topic"
)

// ScorerByName 按名称返回打分策略，名称为空时返回默认的 cosine。
func ScorerByName(name string) (Scorer, error) {
	switch name {
	case "", "cosine":
		return NewCosineScorer(nil), nil
	case "heuristic":
		return NewHeuristicScorer(), nil
	default:
		return nil, core.ErrInvalidInput(core.ModuleRecall, "unknown scorer %q (supported: cosine, heuristic)", name)
	}
}

// ColdStartOrder 返回按难度升序排列的候选（最简单的在前），难度相同保持输入顺序。
func ColdStartOrder(candidates []*core.ContentItem) []core.Recommendation {
	sorted := make([]*core.ContentItem, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Difficulty < sorted[j].Difficulty
	})
	out := make([]core.Recommendation, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, core.Recommendation{ContentItemID: c.ID, Reason: ReasonColdStart})
	}
	return out
}

// unread 返回不在 read 集合中的候选（保持顺序）。
func unread(read, candidates []*core.ContentItem) []*core.ContentItem {
	seen := make(map[string]struct{}, len(read))
	for _, r := range read {
		if r != nil {
			seen[r.ID] = struct{}{}
		}
	}
	out := make([]*core.ContentItem, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

func validateItems(items []*core.ContentItem) error {
	for _, it := range items {
		if it == nil {
			continue
		}
		if err := it.Validate(); err != nil {
			return fmt.Errorf("recall: %w", err)
		}
	}
	return nil
}

// rankDesc 按分数降序稳定排序。
func rankDesc(recs []core.Recommendation) []core.Recommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RelevanceScore > recs[j].RelevanceScore
	})
	return recs
}

func hasRead(read []*core.ContentItem) bool {
	for _, r := range read {
		if r != nil {
			return true
		}
	}
	return false
}
