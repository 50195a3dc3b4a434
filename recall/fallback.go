package recall

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pipeline"
	"github.com/rushteam/learnrec/pkg/utils"
)

// LabelRecallPath 记录最终采用的召回路径（Fallback 中 Source 的名称）。
const LabelRecallPath = "recall_path"

// Fallback 是一个 Recall Node：并发执行多个召回源，按优先级（Sources 顺序）
// 返回第一个产出非空结果的召回源的输出。
//
// 与合并多路结果的 fan-out 不同，Fallback 只采用一路结果：
// 薄弱主题路径为空时回退到相似度路径，再回退到冷启动。
// 任一召回源返回错误时整个请求失败（不返回部分结果）。
type Fallback struct {
	Sources       []Source
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

func (n *Fallback) Name() string        { return "recall.fallback" }
func (n *Fallback) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fallback) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return n.Recall(ctx, rctx)
}

func (n *Fallback) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.Item, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}
			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for i, items := range results {
		if len(items) == 0 {
			continue
		}
		name := n.Sources[i].Name()
		for _, it := range items {
			it.PutLabel(LabelRecallPath, utils.Label{Value: name, Source: utils.SourceRecall})
			it.PutLabel("recall_priority", utils.Label{Value: strconv.Itoa(i), Source: utils.SourceRecall})
		}
		return items, nil
	}
	return nil, nil
}
