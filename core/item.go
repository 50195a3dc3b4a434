package core

import "github.com/rushteam/learnrec/pkg/utils"

// Item 是推荐链路中的统一承载结构：内容、特征、分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID       string
	Score    float64
	Content  *ContentItem
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:       id,
		Score:    0,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// NewContentItem 用内容条目构建 Item。
func NewContentItem(c *ContentItem) *Item {
	it := NewItem(c.ID)
	it.Content = c
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Difficulty 返回内容难度，无内容时返回 0。
func (it *Item) Difficulty() float64 {
	if it == nil || it.Content == nil {
		return 0
	}
	return it.Content.Difficulty
}

// ItemsToRecommendations 把 Item 列表转换为推荐输出，reason 取 recall_source label。
func ItemsToRecommendations(items []*Item) Recommendations {
	out := make(Recommendations, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		reason := ""
		if lbl, ok := it.Labels["recall_source"]; ok {
			reason = lbl.First()
		}
		out = append(out, Recommendation{
			ContentItemID:  it.ID,
			RelevanceScore: it.Score,
			Reason:         reason,
		})
	}
	return out
}
