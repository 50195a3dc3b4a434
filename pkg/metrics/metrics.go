// Package metrics 提供推荐引擎的 Prometheus 指标。
//
// Collector 注册在调用方提供的 Registerer 上（测试中使用独立的 prometheus.NewRegistry()），
// nil *Collector 的所有方法都是空操作，引擎未开启监控时无需判空。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "learnrec"

// Collector 汇总推荐引擎的全部指标。
type Collector struct {
	Recommendations  *prometheus.CounterVec
	RecommendLatency prometheus.Histogram
	WeakTopics       prometheus.Histogram
	Reviews          *prometheus.CounterVec
	Errors           *prometheus.CounterVec
	NodeLatency      *prometheus.HistogramVec
}

// NewCollector 在 reg 上注册指标；reg 为 nil 时使用 prometheus.DefaultRegisterer。
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		Recommendations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recommendations_total",
				Help:      "Total number of recommended content items by recall path",
			},
			[]string{"path"}, // "weak_topic", "similarity", "cold_start", "none"
		),
		RecommendLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "recommend_duration_seconds",
				Help:      "Duration of GetRecommendations calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		WeakTopics: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "weak_topics",
				Help:      "Number of weak topics found per analysis",
				Buckets:   []float64{0, 1, 2, 3, 5, 8},
			},
		),
		Reviews: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reviews_scheduled_total",
				Help:      "Total number of review schedules computed",
			},
			[]string{"due"},
		),
		Errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of failed engine operations",
			},
			[]string{"op"},
		),
		NodeLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_node_duration_seconds",
				Help:      "Duration of pipeline node execution in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
			[]string{"node", "kind"},
		),
	}
}

// ObserveRecommend 记录一次推荐请求：采用的路径、结果条数、耗时。
func (c *Collector) ObserveRecommend(path string, count int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if path == "" {
		path = "none"
	}
	c.Recommendations.WithLabelValues(path).Add(float64(count))
	c.RecommendLatency.Observe(elapsed.Seconds())
}

// ObserveWeakTopics 记录一次分析得到的薄弱主题数。
func (c *Collector) ObserveWeakTopics(n int) {
	if c == nil {
		return
	}
	c.WeakTopics.Observe(float64(n))
}

// ObserveSchedule 记录一次复习调度。
func (c *Collector) ObserveSchedule(due bool) {
	if c == nil {
		return
	}
	c.Reviews.WithLabelValues(strconv.FormatBool(due)).Inc()
}

// ObserveError 记录一次失败的操作。
func (c *Collector) ObserveError(op string) {
	if c == nil {
		return
	}
	c.Errors.WithLabelValues(op).Inc()
}

// ObserveNode 记录单个 pipeline 节点的耗时。
func (c *Collector) ObserveNode(node, kind string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.NodeLatency.WithLabelValues(node, kind).Observe(elapsed.Seconds())
}
