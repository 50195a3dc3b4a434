package core

// TopicAggregate 是按主题聚合的表现（每次分析时临时计算，从不持久化）。
type TopicAggregate struct {
	Topic        string  `json:"topic"`
	AverageScore float64 `json:"average_score"`
	SampleCount  int     `json:"sample_count"`
}

// Recommendation 是排序输出中的一项。
type Recommendation struct {
	ContentItemID  string  `json:"content_item_id"`
	RelevanceScore float64 `json:"relevance_score"`
	Reason         string  `json:"reason,omitempty"` // weak_topic / cosine / heuristic / cold_start
}

// Recommendations 是有序推荐列表，按需生成，不持久化。
type Recommendations []Recommendation

// IDs 返回按顺序排列的内容 ID。
func (r Recommendations) IDs() []string {
	out := make([]string, 0, len(r))
	for _, rec := range r {
		out = append(out, rec.ContentItemID)
	}
	return out
}
