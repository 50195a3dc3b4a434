package builders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/learnrec/config"
	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/filter"
	"github.com/rushteam/learnrec/pipeline"
	"github.com/rushteam/learnrec/recall"
	"github.com/rushteam/learnrec/rerank"
)

const weakPipelineYAML = `
pipeline:
  name: weak_topic
  nodes:
    - type: recall.weak_topic
    - type: filter
      config:
        filters:
          - type: weak_topic
          - type: difficulty_band
            band: 0.2
          - type: recently_reviewed
            window: 24h
          - type: mastered
          - type: blacklist
            item_ids: ["X"]
          - type: expr
            expr: 'item.engagement_cost <= 30.0'
    - type: rank.difficulty
    - type: rerank.diversity
      config:
        max_per_topic: 2
    - type: rerank.dedup
    - type: rerank.topn
      config:
        n: 10
`

const fallbackPipelineYAML = `
pipeline:
  name: recommend
  nodes:
    - type: recall.fallback
      config:
        timeout: 2s
        sources:
          - name: weak_topic
            nodes:
              - type: recall.weak_topic
              - type: rank.difficulty
          - name: similarity
            nodes:
              - type: recall.similarity
                config:
                  strategy: heuristic
                  spread: 1
                  warm_only: true
              - type: rank.similarity
          - name: cold_start
            nodes:
              - type: recall.cold_start
              - type: rerank.topn
                config:
                  n: 2
`

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func catalog() []*core.ContentItem {
	return []*core.ContentItem{
		{ID: "A", Topic: "Calculus", Difficulty: 0.5, EngagementCost: 10},
		{ID: "B", Topic: "Calculus", Difficulty: 0.6, EngagementCost: 60},
		{ID: "X", Topic: "Calculus", Difficulty: 0.5, EngagementCost: 10},
		{ID: "C", Topic: "Calculus", Difficulty: 0.4, EngagementCost: 20},
		{ID: "D", Topic: "Algebra", Difficulty: 0.1, EngagementCost: 5},
	}
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestSupportedTypes(t *testing.T) {
	types := config.SupportedTypes()
	for _, want := range []string{
		"recall.weak_topic", "recall.cold_start", "recall.similarity", "recall.fallback",
		"filter", "rank.difficulty", "rank.similarity", "rerank.topn", "rerank.diversity", "rerank.dedup",
	} {
		assert.Contains(t, types, want)
	}
}

func TestBuildWeakPipelineFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(weakPipelineYAML))
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	require.NoError(t, err)
	assert.Equal(t, []string{"recall.weak_topic", "filter.node", "rank.difficulty", "rerank.diversity", "rerank.dedup", "rerank.topn"}, p.NodeNames())

	node, ok := p.Nodes[1].(*filter.FilterNode)
	require.True(t, ok)
	assert.Len(t, node.Filters, 6)

	rctx := &core.RecommendContext{
		Now:              now,
		Catalog:          catalog(),
		Learner:          core.NewLearnerSnapshot("u1", nil),
		WeakTopics:       []string{"Calculus"},
		TargetDifficulty: 0.5,
		Limit:            5,
	}
	items, err := p.Run(context.Background(), rctx, nil)
	require.NoError(t, err)
	// X 在黑名单，B 的 engagement_cost 超出规则，D 不是薄弱主题
	assert.Equal(t, []string{"A", "C"}, ids(items))
}

func TestBuildFallbackFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(fallbackPipelineYAML))
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	require.NoError(t, err)
	fb, ok := p.Nodes[0].(*recall.Fallback)
	require.True(t, ok)
	assert.Len(t, fb.Sources, 3)
	assert.Equal(t, 2*time.Second, fb.Timeout)

	// 没有薄弱主题、没有历史 → 冷启动，截断 2 条
	rctx := &core.RecommendContext{Now: now, Catalog: catalog(), Learner: core.NewLearnerSnapshot("u1", nil)}
	items, err := p.Run(context.Background(), rctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "C"}, ids(items))
	assert.Equal(t, "cold_start", items[0].Labels[recall.LabelRecallPath].Value)
}

func TestValidatePipelineConfig_Unsupported(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(`
pipeline:
  name: bad
  nodes:
    - type: recall.fallback
      config:
        sources:
          - name: x
            nodes:
              - type: rank.lr
`))
	require.NoError(t, err)
	err = config.ValidatePipelineConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank.lr")
}

func TestBuildErrors(t *testing.T) {
	_, err := BuildFilterNode(map[string]any{"filters": []any{map[string]any{"type": "exposed"}}})
	assert.Error(t, err)

	_, err = BuildFilterNode(map[string]any{})
	assert.Error(t, err)

	_, err = BuildFilterNode(map[string]any{"filters": []any{map[string]any{"type": "expr", "expr": "item.("}}})
	assert.True(t, core.IsInvalidInput(err))

	_, err = BuildSimilarityNode(map[string]any{"strategy": "bm25"})
	assert.True(t, core.IsInvalidInput(err))

	_, err = BuildTopNNode(map[string]any{"n": -1})
	assert.Error(t, err)

	_, err = BuildFallbackNode(map[string]any{})
	assert.Error(t, err)

	_, err = BuildFallbackNode(map[string]any{"sources": []any{map[string]any{"name": "x"}}})
	assert.Error(t, err)
}

func TestBuildTopNNode(t *testing.T) {
	n, err := BuildTopNNode(map[string]any{"n": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 3, n.(*rerank.TopNNode).N)
}
