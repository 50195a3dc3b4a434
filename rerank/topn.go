package rerank

import (
	"context"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个条目。
// 通常在排序（Rank）节点之后使用，保证输出数量 ≤ 请求的 limit。
//
// 截断数量：
//   - rctx.Limit > 0 时取 min(N, rctx.Limit)（N <= 0 时直接取 rctx.Limit）
//   - 两者都 <= 0 时不截断
//
// 示例：
//
//	p := pipeline.New("weak",
//	    &recall.WeakTopicRecall{},
//	    &filter.FilterNode{...},
//	    &rank.DifficultyNode{},
//	    &rerank.TopNNode{N: 20},
//	)
type TopNNode struct {
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if rctx != nil && rctx.Limit > 0 && (limit <= 0 || rctx.Limit < limit) {
		limit = rctx.Limit
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
