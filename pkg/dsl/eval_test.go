package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pkg/utils"
)

func TestRule_Evaluate(t *testing.T) {
	it := core.NewContentItem(&core.ContentItem{
		ID:         "calc-b",
		Topic:      "Calculus",
		Tags:       []string{"derivatives"},
		Difficulty: 0.4,
	})
	it.Score = 0.9
	it.PutLabel("recall_source", utils.Label{Value: "weak_topic", Source: "recall"})

	rctx := &core.RecommendContext{
		LearnerID:        "u1",
		MasteryLevel:     0.3,
		TargetDifficulty: 0.4,
		WeakTopics:       []string{"Calculus"},
	}

	tests := []struct {
		expr string
		want bool
	}{
		{"", true},
		{`item.topic in learner.weak_topics`, true},
		{`item.difficulty <= learner.target_difficulty + 0.05`, true},
		{`label.recall_source == "weak_topic" && item.score > 0.5`, true},
		{`"derivatives" in item.tags`, true},
		{`"advanced" in item.tags`, false},
		{`"rank_model" in label`, false},
		{`learner.id == "u2"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			r, err := Compile(tt.expr)
			require.NoError(t, err)
			got, err := r.Evaluate(it, rctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(`item.topic ==`)
	assert.Error(t, err)

	r, err := Compile(`item.topic`)
	require.NoError(t, err)
	_, err = r.Evaluate(core.NewItem("x"), &core.RecommendContext{})
	assert.Error(t, err, "non-bool result")
}
