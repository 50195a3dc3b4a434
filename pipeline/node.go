package pipeline

import (
	"context"

	"github.com/rushteam/learnrec/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：生成候选集（薄弱主题 / 相似度 / 冷启动）
	KindFilter      Kind = "filter"      // 过滤阶段：剔除近期复习、已掌握、难度带外的候选
	KindRank        Kind = "rank"        // 排序阶段：按目标难度距离或相似度排序
	KindReRank      Kind = "rerank"      // 重排阶段：截断、去重、主题多样性
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充解释信息或最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态，方便 Recall 生成、Filter 截断、ReRank 重排等操作。
//
// Node 必须是无状态的（或只读状态），同一个 Node 会被多个请求并发调用。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node，用于配置驱动的 Pipeline。
type NodeBuilder func(config map[string]any) (Node, error)
