package utils

import "strings"

// Label 记录条目在链路中经过的决策：召回来源、回退路径、排序模型、过滤原因等。
// 推荐输出的 Reason 与监控中的 path 都从 Label 读取。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // 写入该 Label 的阶段，见 Source* 常量
}

// 写入 Label 的阶段。
const (
	SourceRecall = "recall"
	SourceFilter = "filter"
	SourceRank   = "rank"
	SourceRerank = "rerank"
	SourceRule   = "rule"
)

const (
	valueSep  = "|"
	sourceSep = ","
)

// MergeLabel 合并同名 Label：Value 以 '|' 累积、Source 以 ',' 累积，已存在的值不重复追加。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	if !contains(existing.Values(), incoming.Value) {
		merged.Value = existing.Value + valueSep + incoming.Value
	}
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "" || contains(strings.Split(existing.Source, sourceSep), incoming.Source):
	default:
		merged.Source = existing.Source + sourceSep + incoming.Source
	}
	return merged
}

// Values 返回累积的全部取值，按写入顺序。
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, valueSep)
}

// First 返回最早写入的取值（如条目最初的召回来源）。
func (l Label) First() string {
	first, _, _ := strings.Cut(l.Value, valueSep)
	return first
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
