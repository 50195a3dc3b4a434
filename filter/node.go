package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pipeline"
	"github.com/rushteam/learnrec/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该条目就会被过滤掉；保留的条目保持输入顺序。
//
// 过滤器返回错误时默认整个请求失败；FailOpen 为 true 时忽略该过滤器的错误继续判断。
type FilterNode struct {
	Filters  []Filter
	FailOpen bool
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		filterReason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				if n.FailOpen {
					continue
				}
				return nil, fmt.Errorf("%s: %w", f.Name(), err)
			}
			if ok {
				filterReason = f.Name()
				break
			}
		}

		if filterReason != "" {
			// 记录过滤原因（用于调试/观测）
			item.PutLabel("filtered", utils.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}
		out = append(out, item)
	}

	return out, nil
}
