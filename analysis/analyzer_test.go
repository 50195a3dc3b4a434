package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/learnrec/core"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func perf(id string, score float64) *core.PerformanceRecord {
	return &core.PerformanceRecord{
		ContentItemID:  id,
		Score:          score,
		LastReviewedAt: now.Add(-72 * time.Hour),
		ReviewCount:    1,
		MasteryLevel:   score / 100,
	}
}

func testCatalog() Catalog {
	return IndexCatalog([]*core.ContentItem{
		{ID: "A", Topic: "Calculus", Difficulty: 0.3},
		{ID: "B", Topic: "Calculus", Difficulty: 0.9},
		{ID: "C", Topic: "Algebra", Difficulty: 0.2},
		{ID: "D", Topic: "Geometry", Difficulty: 0.5},
		{ID: "E", Topic: "Statistics", Topics: []string{"Algebra"}, Difficulty: 0.6},
		{ID: "F", Topic: "Biology", Difficulty: 0.4},
	})
}

func TestWeakAreas_Scenario(t *testing.T) {
	got, err := NewAnalyzer().WeakAreas([]*core.PerformanceRecord{perf("A", 40)}, testCatalog())
	require.NoError(t, err)
	assert.Equal(t, []string{"Calculus"}, got)
}

func TestWeakAreas_ThresholdBoundary(t *testing.T) {
	a := NewAnalyzer()

	got, err := a.WeakAreas([]*core.PerformanceRecord{perf("A", 69.9)}, testCatalog())
	require.NoError(t, err)
	assert.Equal(t, []string{"Calculus"}, got, "69.9 must be weak")

	got, err = a.WeakAreas([]*core.PerformanceRecord{perf("A", 70), perf("B", 100)}, testCatalog())
	require.NoError(t, err)
	assert.Empty(t, got, "scores >= 70 are never weak")
}

func TestWeakAreas_OrderingAndTopN(t *testing.T) {
	perfs := []*core.PerformanceRecord{
		perf("A", 50), perf("B", 30), // Calculus 40
		perf("C", 20),                // Algebra 20
		perf("D", 60),                // Geometry 60
		perf("F", 60),                // Biology 60
	}

	got, err := NewAnalyzer().WeakAreas(perfs, testCatalog())
	require.NoError(t, err)
	assert.Equal(t, []string{"Algebra", "Calculus", "Biology"}, got)

	all, err := (&Analyzer{Threshold: DefaultWeakThreshold}).WeakAreas(perfs, testCatalog())
	require.NoError(t, err)
	assert.Equal(t, []string{"Algebra", "Calculus", "Biology", "Geometry"}, all)
}

func TestAggregate_MultiTopicAndUnknown(t *testing.T) {
	perfs := []*core.PerformanceRecord{
		perf("C", 20),
		perf("E", 80),
		perf("missing", 10),
	}
	aggs, err := NewAnalyzer().Aggregate(perfs, testCatalog())
	require.NoError(t, err)
	assert.Equal(t, []core.TopicAggregate{
		{Topic: "Algebra", AverageScore: 50, SampleCount: 2},
		{Topic: "Statistics", AverageScore: 80, SampleCount: 1},
	}, aggs)
}

func TestWeakAreas_EmptyAndInvalid(t *testing.T) {
	got, err := NewAnalyzer().WeakAreas(nil, testCatalog())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = NewAnalyzer().WeakAreas([]*core.PerformanceRecord{perf("A", 140)}, testCatalog())
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}
