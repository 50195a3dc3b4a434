package builders

import (
	"fmt"

	"github.com/rushteam/learnrec/config"
	"github.com/rushteam/learnrec/filter"
	"github.com/rushteam/learnrec/pipeline"
	"github.com/rushteam/learnrec/pkg/conv"
	"github.com/rushteam/learnrec/rank"
	"github.com/rushteam/learnrec/recall"
	"github.com/rushteam/learnrec/rerank"
)

func init() {
	config.Register("recall.weak_topic", BuildWeakTopicNode)
	config.Register("recall.cold_start", BuildColdStartNode)
	config.Register("recall.similarity", BuildSimilarityNode)
	config.Register("recall.fallback", BuildFallbackNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rank.difficulty", BuildDifficultyNode)
	config.Register("rank.similarity", BuildSimilarityRankNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.dedup", BuildDedupNode)
}

func BuildWeakTopicNode(map[string]any) (pipeline.Node, error) {
	return &recall.WeakTopicRecall{}, nil
}

func BuildColdStartNode(map[string]any) (pipeline.Node, error) {
	return &recall.ColdStart{}, nil
}

func BuildSimilarityNode(cfg map[string]any) (pipeline.Node, error) {
	scorer, err := recall.ScorerByName(conv.ConfigGet(cfg, "strategy", ""))
	if err != nil {
		return nil, err
	}
	if h, ok := scorer.(*recall.HeuristicScorer); ok {
		h.Spread = conv.ConfigGetFloat64(cfg, "spread", h.Spread)
	}
	return &recall.SimilarityRecall{
		Scorer:   scorer,
		WarmOnly: conv.ConfigGet(cfg, "warm_only", false),
	}, nil
}

func BuildFallbackNode(cfg map[string]any) (pipeline.Node, error) {
	raw, ok := cfg["sources"]
	if !ok {
		return nil, fmt.Errorf("sources not found")
	}
	srcs, err := config.DecodeSources(raw)
	if err != nil {
		return nil, err
	}

	factory := config.DefaultFactory()
	sources := make([]recall.Source, 0, len(srcs))
	for _, sc := range srcs {
		p, err := pipeline.BuildNodes(factory, sc.Name, sc.Nodes)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", sc.Name, err)
		}
		sources = append(sources, &recall.PipelineSource{SourceName: sc.Name, Pipeline: p})
	}
	return &recall.Fallback{
		Sources:       sources,
		Timeout:       conv.ConfigGetDuration(cfg, "timeout", 0),
		MaxConcurrent: conv.ConfigGetInt(cfg, "max_concurrent", 0),
	}, nil
}

func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "weak_topic":
			filters = append(filters, &filter.WeakTopicFilter{})
		case "difficulty_band":
			filters = append(filters, filter.NewDifficultyBandFilter(conv.ConfigGetFloat64(filterMap, "band", 0)))
		case "recently_reviewed":
			filters = append(filters, filter.NewRecentlyReviewedFilter(conv.ConfigGetDuration(filterMap, "window", 0)))
		case "mastered":
			filters = append(filters, &filter.MasteredFilter{
				Threshold: conv.ConfigGetFloat64(filterMap, "threshold", 0),
				Always:    conv.ConfigGet(filterMap, "always", false),
			})
		case "blacklist":
			filters = append(filters, filter.NewBlacklistFilter(conv.ConfigGetStrings(filterMap, "item_ids", nil), nil, ""))
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{
		Filters:  filters,
		FailOpen: conv.ConfigGet(cfg, "fail_open", false),
	}, nil
}

func BuildDifficultyNode(map[string]any) (pipeline.Node, error) {
	return &rank.DifficultyNode{}, nil
}

func BuildSimilarityRankNode(map[string]any) (pipeline.Node, error) {
	return &rank.SimilarityNode{}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt(cfg, "n", 0)
	if n < 0 {
		return nil, fmt.Errorf("rerank.topn: n must be >= 0, got %d", n)
	}
	return &rerank.TopNNode{N: n}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		MaxPerTopic: conv.ConfigGetInt(cfg, "max_per_topic", 1),
		Drop:        conv.ConfigGet(cfg, "drop", false),
		LabelKey:    conv.ConfigGet(cfg, "label_key", "topic"),
	}, nil
}

func BuildDedupNode(map[string]any) (pipeline.Node, error) {
	return &rerank.Dedup{}, nil
}
