// Package analysis 提供薄弱点分析：按主题聚合历史分数，找出平均分低于阈值的主题。
package analysis

import (
	"sort"

	"github.com/rushteam/learnrec/core"
)

const (
	// DefaultWeakThreshold 薄弱主题阈值：平均分严格低于该值即为薄弱
	DefaultWeakThreshold = 70.0
	// DefaultTopN 默认返回的薄弱主题数
	DefaultTopN = 3
)

// Catalog 是内容 ID → 内容条目的索引（目录元数据）。
type Catalog map[string]*core.ContentItem

// IndexCatalog 构建目录索引，ID 重复时保留第一个。
func IndexCatalog(items []*core.ContentItem) Catalog {
	out := make(Catalog, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, ok := out[it.ID]; !ok {
			out[it.ID] = it
		}
	}
	return out
}

// Analyzer 是薄弱点分析器。零值不可用，使用 NewAnalyzer 或显式设置 Threshold。
type Analyzer struct {
	Threshold float64
	// TopN <= 0 表示不限制数量
	TopN int
}

// NewAnalyzer 创建使用默认阈值（70）和默认数量（3）的分析器。
func NewAnalyzer() *Analyzer {
	return &Analyzer{Threshold: DefaultWeakThreshold, TopN: DefaultTopN}
}

// Aggregate 按主题聚合分数：一条记录计入其内容所属的每个主题；
// 内容不在目录中的记录被跳过。输出按主题名排序。
func (a *Analyzer) Aggregate(perfs []*core.PerformanceRecord, catalog Catalog) ([]core.TopicAggregate, error) {
	if err := core.ValidatePerformances(perfs); err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range perfs {
		item, ok := catalog[p.ContentItemID]
		if !ok {
			continue
		}
		for _, topic := range item.AllTopics() {
			sums[topic] += p.Score
			counts[topic]++
		}
	}

	out := make([]core.TopicAggregate, 0, len(sums))
	for topic, sum := range sums {
		out = append(out, core.TopicAggregate{
			Topic:        topic,
			AverageScore: sum / float64(counts[topic]),
			SampleCount:  counts[topic],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out, nil
}

// WeakAreas 返回薄弱主题（最弱在前）：平均分 < Threshold，按平均分升序，
// 平均分相同按主题名升序，最多 TopN 个。没有记录时返回空切片。
func (a *Analyzer) WeakAreas(perfs []*core.PerformanceRecord, catalog Catalog) ([]string, error) {
	aggs, err := a.WeakAggregates(perfs, catalog)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(aggs))
	for _, agg := range aggs {
		out = append(out, agg.Topic)
	}
	return out, nil
}

// WeakAggregates 同 WeakAreas，但返回带平均分的聚合结果。
func (a *Analyzer) WeakAggregates(perfs []*core.PerformanceRecord, catalog Catalog) ([]core.TopicAggregate, error) {
	aggs, err := a.Aggregate(perfs, catalog)
	if err != nil {
		return nil, err
	}

	weak := make([]core.TopicAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.AverageScore < a.Threshold {
			weak = append(weak, agg)
		}
	}
	// aggs 已按主题名排序，稳定排序后平均分相同的按主题名升序
	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].AverageScore < weak[j].AverageScore
	})
	if a.TopN > 0 && len(weak) > a.TopN {
		weak = weak[:a.TopN]
	}
	return weak, nil
}
