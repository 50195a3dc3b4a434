package rerank

import (
	"context"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pipeline"
)

// Dedup 按内容 ID 去重，保留第一次出现的条目，后出现条目的 labels 合并到保留条目上。
type Dedup struct{}

func (n *Dedup) Name() string        { return "rerank.dedup" }
func (n *Dedup) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Dedup) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	seen := make(map[string]*core.Item, len(items))
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if old, ok := seen[it.ID]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.ID] = it
		out = append(out, it)
	}
	return out, nil
}
