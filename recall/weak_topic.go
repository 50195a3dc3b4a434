package recall

import (
	"context"
	"sort"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pipeline"
)

// WeakTopicRecall 召回属于薄弱主题的内容，输出保持目录顺序（排序阶段的稳定次序以此为准）。
//   - 设置了 Catalog 时按主题调用 ListByTopic
//   - 否则在请求上下文的目录快照中按主题筛选
//
// 没有薄弱主题时返回空，由上层回退到相似度 / 冷启动路径。
type WeakTopicRecall struct {
	Catalog core.CatalogProvider
}

func (r *WeakTopicRecall) Name() string        { return "recall.weak_topic" }
func (r *WeakTopicRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *WeakTopicRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *WeakTopicRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || len(rctx.WeakTopics) == 0 {
		return nil, nil
	}

	var matched []*core.ContentItem
	if r.Catalog != nil {
		seen := make(map[string]struct{})
		for _, topic := range rctx.WeakTopics {
			items, err := r.Catalog.ListByTopic(ctx, topic)
			if err != nil {
				return nil, err
			}
			for _, c := range items {
				if c == nil {
					continue
				}
				if _, ok := seen[c.ID]; ok {
					continue
				}
				seen[c.ID] = struct{}{}
				matched = append(matched, c)
			}
		}
		if len(rctx.Catalog) > 0 {
			idx := catalogIndex(rctx.Catalog)
			sort.SliceStable(matched, func(i, j int) bool {
				return position(idx, matched[i].ID) < position(idx, matched[j].ID)
			})
		}
	} else {
		for _, c := range rctx.Catalog {
			if c == nil {
				continue
			}
			for _, topic := range c.AllTopics() {
				if rctx.IsWeakTopic(topic) {
					matched = append(matched, c)
					break
				}
			}
		}
	}

	out := make([]*core.Item, 0, len(matched))
	for _, c := range matched {
		out = append(out, newRecallItem(c, ReasonWeakTopic))
	}
	return out, nil
}

func position(idx map[string]int, id string) int {
	if p, ok := idx[id]; ok {
		return p
	}
	return len(idx)
}
