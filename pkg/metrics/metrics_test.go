package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveRecommend(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveRecommend("weak_topic", 3, 10*time.Millisecond)
	c.ObserveRecommend("weak_topic", 2, 5*time.Millisecond)
	c.ObserveRecommend("", 0, time.Millisecond)

	assert.Equal(t, 5.0, testutil.ToFloat64(c.Recommendations.WithLabelValues("weak_topic")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Recommendations.WithLabelValues("none")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.RecommendLatency))
}

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveSchedule(true)
	c.ObserveSchedule(true)
	c.ObserveSchedule(false)
	c.ObserveError("recommend")
	c.ObserveWeakTopics(2)
	c.ObserveNode("rank.difficulty", "rank", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Reviews.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Reviews.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Errors.WithLabelValues("recommend")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "learnrec_reviews_scheduled_total")
	assert.Contains(t, names, "learnrec_weak_topics")
	assert.Contains(t, names, "learnrec_pipeline_node_duration_seconds")
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRecommend("weak_topic", 1, time.Second)
		c.ObserveWeakTopics(1)
		c.ObserveSchedule(true)
		c.ObserveError("recommend")
		c.ObserveNode("n", "k", time.Second)
	})
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
