package rerank

import (
	"context"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pipeline"
)

// Diversity 是主题多样性 ReRank：每个主题最多 MaxPerTopic 个条目排在前面，
// 超出的条目按原顺序移到末尾（Drop 为 true 时直接丢弃）。
// 主题来源优先级：
// - item.Content.Topic
// - label[LabelKey].Value（LabelKey 默认 "topic"）
type Diversity struct {
	MaxPerTopic int // 默认 1
	Drop        bool
	LabelKey    string
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	maxPer := n.MaxPerTopic
	if maxPer <= 0 {
		maxPer = 1
	}

	seen := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))
	var overflow []*core.Item

	for _, it := range items {
		if it == nil {
			continue
		}
		topic := n.topicOf(it)
		if topic == "" {
			out = append(out, it)
			continue
		}
		if seen[topic] >= maxPer {
			overflow = append(overflow, it)
			continue
		}
		seen[topic]++
		out = append(out, it)
	}

	if !n.Drop {
		out = append(out, overflow...)
	}
	return out, nil
}

func (n *Diversity) topicOf(it *core.Item) string {
	if it.Content != nil && it.Content.Topic != "" {
		return it.Content.Topic
	}
	key := n.LabelKey
	if key == "" {
		key = "topic"
	}
	if lbl, ok := it.Labels[key]; ok {
		return lbl.Value
	}
	return ""
}
