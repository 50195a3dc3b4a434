package recall

import (
	"context"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pipeline"
)

// PipelineSource 把一条完整的子链路（召回 → 过滤 → 排序 → 截断）包装为召回源，
// 供 Fallback 按路径回退使用。
type PipelineSource struct {
	SourceName string
	Pipeline   *pipeline.Pipeline
}

func (s *PipelineSource) Name() string {
	if s.SourceName != "" {
		return s.SourceName
	}
	if s.Pipeline != nil && s.Pipeline.Name != "" {
		return s.Pipeline.Name
	}
	return "pipeline"
}

func (s *PipelineSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if s.Pipeline == nil {
		return nil, nil
	}
	return s.Pipeline.Run(ctx, rctx, nil)
}
