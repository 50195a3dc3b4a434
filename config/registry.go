package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/learnrec/pipeline"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/rushteam/learnrec/config/builders"
// 以触发内置 Node（recall.weak_topic、filter、rank.difficulty、rerank.topn 等）的 init 注册。

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
// 各组件在 init 中调用 Register(typeName, builder) 即可被配置驱动。
type NodeBuilder = pipeline.NodeBuilder

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，供 DefaultFactory 与配置驱动使用。
// 建议在各组件的 init 中调用，例如：func init() { config.Register("rank.difficulty", BuildDifficultyNode) }
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回基于当前注册表构建的 NodeFactory，包含所有通过 Register 注册的 Node 类型。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

func registered(typeName string) bool {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	_, ok := defaultBuilders[typeName]
	return ok
}

// ValidatePipelineConfig 校验 pipeline 配置中所有 node 类型均已注册（包括 recall.fallback 的子链路）；
// 若有未支持类型则返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	return validateNodes(cfg.Pipeline.Nodes)
}

func validateNodes(ncs []pipeline.NodeConfig) error {
	for _, nc := range ncs {
		if nc.Type == "" {
			continue
		}
		if !registered(nc.Type) {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, SupportedTypes())
		}
		sources, ok := nc.Config["sources"]
		if !ok {
			continue
		}
		srcs, err := DecodeSources(sources)
		if err != nil {
			return fmt.Errorf("node %s: %w", nc.Type, err)
		}
		for _, src := range srcs {
			if err := validateNodes(src.Nodes); err != nil {
				return fmt.Errorf("source %s: %w", src.Name, err)
			}
		}
	}
	return nil
}

// SourceConfig 是 recall.fallback 中一条子链路的配置。
type SourceConfig struct {
	Name  string
	Nodes []pipeline.NodeConfig
}

// DecodeSources 把 YAML/JSON 解析出的 sources 列表转换为 SourceConfig。
//
//	sources:
//	  - name: weak_topic
//	    nodes:
//	      - type: recall.weak_topic
//	      - type: rank.difficulty
func DecodeSources(v any) ([]SourceConfig, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("sources must be a list")
	}
	out := make([]SourceConfig, 0, len(list))
	for i, raw := range list {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("source #%d must be a map", i)
		}
		name, _ := m["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("source #%d has empty name", i)
		}
		nodes, err := decodeNodes(m["nodes"])
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", name, err)
		}
		out = append(out, SourceConfig{Name: name, Nodes: nodes})
	}
	return out, nil
}

func decodeNodes(v any) ([]pipeline.NodeConfig, error) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("nodes must be a non-empty list")
	}
	out := make([]pipeline.NodeConfig, 0, len(list))
	for i, raw := range list {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("node #%d must be a map", i)
		}
		typ, _ := m["type"].(string)
		if typ == "" {
			return nil, fmt.Errorf("node #%d has empty type", i)
		}
		cfg, _ := m["config"].(map[string]any)
		out = append(out, pipeline.NodeConfig{Type: typ, Config: cfg})
	}
	return out, nil
}
