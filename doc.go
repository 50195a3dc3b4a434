// Package learnrec 是学习内容推荐工具包：根据学习者的历史表现推荐下一步要学的内容，
// 并按间隔重复安排复习。
//
// 设计要点：
//   - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank），按路径回退
//   - Labels-first: 召回来源 / 回退路径 / 排序模型写入 Label，推荐理由由 Label 得出
//   - 存储可替换: 目录与学习记录通过 Provider 接口读取，内置 memory / redis / badger
package learnrec

import (
	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/engine"
	"github.com/rushteam/learnrec/pipeline"
)

// 轻量 facade：便于直接 import "learnrec" 使用核心抽象。
type (
	Engine            = engine.Engine
	Option            = engine.Option
	RequestOption     = engine.RequestOption
	ContentItem       = core.ContentItem
	PerformanceRecord = core.PerformanceRecord
	Recommendation    = core.Recommendation
	Pipeline          = pipeline.Pipeline
	Node              = pipeline.Node
	Kind              = pipeline.Kind
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// New 创建推荐引擎，等同于 engine.New。
func New(catalog core.CatalogProvider, perf core.PerformanceProvider, opts ...Option) (*Engine, error) {
	return engine.New(catalog, perf, opts...)
}
