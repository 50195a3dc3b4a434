package recall

import (
	"context"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pkg/utils"
)

// Source 表示一个可复用的召回源（薄弱主题 / 相似度 / 冷启动 / 子链路）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// LabelRecallSource 是记录召回来源的 label key，最终作为推荐理由输出。
const LabelRecallSource = "recall_source"

func newRecallItem(c *core.ContentItem, source string) *core.Item {
	it := core.NewContentItem(c)
	it.PutLabel(LabelRecallSource, utils.Label{Value: source, Source: utils.SourceRecall})
	return it
}

// catalogIndex 返回内容 ID → 目录位置，用于恢复目录顺序。
func catalogIndex(catalog []*core.ContentItem) map[string]int {
	idx := make(map[string]int, len(catalog))
	for i, c := range catalog {
		if c == nil {
			continue
		}
		if _, ok := idx[c.ID]; !ok {
			idx[c.ID] = i
		}
	}
	return idx
}
