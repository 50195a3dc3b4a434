package recall

import (
	"context"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pipeline"
)

// ColdStart 是冷启动召回源：返回按难度升序排列的目录（最简单的在前）。
//   - 优先使用请求上下文中的目录快照
//   - 快照为空且设置了 Catalog 时，从 CatalogProvider 读取
//
// ColdStart 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type ColdStart struct {
	Catalog core.CatalogProvider
}

func (r *ColdStart) Name() string        { return "recall.cold_start" }
func (r *ColdStart) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *ColdStart) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *ColdStart) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	var catalog []*core.ContentItem
	if rctx != nil {
		catalog = rctx.Catalog
	}
	if len(catalog) == 0 && r.Catalog != nil {
		items, err := r.Catalog.ListItems(ctx)
		if err != nil {
			return nil, err
		}
		catalog = items
	}

	byID := make(map[string]*core.ContentItem, len(catalog))
	for _, c := range catalog {
		if c != nil {
			byID[c.ID] = c
		}
	}
	recs := ColdStartOrder(catalog)
	out := make([]*core.Item, 0, len(recs))
	for _, rec := range recs {
		out = append(out, newRecallItem(byID[rec.ContentItemID], ReasonColdStart))
	}
	return out, nil
}
