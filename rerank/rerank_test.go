package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pkg/utils"
)

func topicItem(id, topic string) *core.Item {
	return core.NewContentItem(&core.ContentItem{ID: id, Topic: topic})
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestTopNNode(t *testing.T) {
	in := []*core.Item{topicItem("A", "x"), topicItem("B", "x"), topicItem("C", "x"), topicItem("D", "x")}

	tests := []struct {
		name  string
		n     int
		limit int
		want  []string
	}{
		{name: "N only", n: 2, want: []string{"A", "B"}},
		{name: "limit smaller than N", n: 3, limit: 1, want: []string{"A"}},
		{name: "N smaller than limit", n: 2, limit: 3, want: []string{"A", "B"}},
		{name: "limit only", limit: 3, want: []string{"A", "B", "C"}},
		{name: "no cap", want: []string{"A", "B", "C", "D"}},
		{name: "cap above length", n: 10, want: []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), &core.RecommendContext{Limit: tt.limit}, in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(out))
		})
	}
}

func TestDiversity_DemotesRepeatedTopics(t *testing.T) {
	in := []*core.Item{topicItem("A", "Calculus"), topicItem("B", "Calculus"), topicItem("C", "Algebra"), topicItem("D", "Calculus")}

	out, err := (&Diversity{}).Process(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B", "D"}, ids(out))

	out, err = (&Diversity{MaxPerTopic: 2, Drop: true}).Process(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ids(out))
}

func TestDiversity_LabelFallback(t *testing.T) {
	a := core.NewItem("A")
	a.PutLabel("category", utils.Label{Value: "x"})
	b := core.NewItem("B")
	b.PutLabel("category", utils.Label{Value: "x"})
	c := core.NewItem("C")

	out, err := (&Diversity{LabelKey: "category", Drop: true}).Process(context.Background(), nil, []*core.Item{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, ids(out))
}

func TestDedup(t *testing.T) {
	a1 := topicItem("A", "x")
	a1.PutLabel("recall_source", utils.Label{Value: "weak_topic"})
	a2 := topicItem("A", "x")
	a2.PutLabel("extra", utils.Label{Value: "1"})

	out, err := (&Dedup{}).Process(context.Background(), nil, []*core.Item{a1, topicItem("B", "x"), a2, nil})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(out))
	assert.Equal(t, "1", out[0].Labels["extra"].Value)
	assert.Equal(t, "weak_topic", out[0].Labels["recall_source"].Value)
}
