package core

import (
	"context"
	"time"
)

// CatalogProvider 是内容目录的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 推荐核心只读，目录的写入由外部协作方负责
//   - ListItems 的返回顺序即"目录顺序"，排序的稳定次序以此为准
//
// 实现：
//   - store.CatalogStore（基于 core.KeyValueStore：memory / redis / badger）
type CatalogProvider interface {
	// ListItems 返回全部内容条目
	ListItems(ctx context.Context) ([]*ContentItem, error)

	// GetItem 按 ID 获取内容条目，不存在时返回 NOT_FOUND
	GetItem(ctx context.Context, id string) (*ContentItem, error)

	// ListByTopic 返回属于某个主题的条目
	ListByTopic(ctx context.Context, topic string) ([]*ContentItem, error)
}

// PerformanceProvider 是学习记录的领域接口。
//
// 同一 (learner, contentItemId) 最多一条有效记录：UpsertPerformance 覆盖旧记录。
// 对单个学习者的"读 → 计算 → 写"序列化由调用方负责。
type PerformanceProvider interface {
	// ListPerformances 返回学习者的全部学习记录
	ListPerformances(ctx context.Context, learnerID string) ([]*PerformanceRecord, error)

	// UpsertPerformance 按 (learner, contentItemId) 写入记录
	UpsertPerformance(ctx context.Context, learnerID string, rec *PerformanceRecord) error
}

// Clock 是时间源接口，便于测试时固定时间。
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系统时间。
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock 返回固定时间（测试 / 回放使用）。
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
