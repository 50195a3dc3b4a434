package feature

import (
	"github.com/rushteam/learnrec/core"
)

// ItemExtractor 是内容特征抽取器的统一接口，采用策略模式。
//
// 不同的相似度策略可能需要不同的特征表示：
//   - 词袋 + 主题/标签加权（默认，TextExtractor）
//   - 带缓存的抽取（CachedExtractor，内容发布后不可变）
//   - 自定义：如 TF-IDF、外部 embedding
//
// 通过实现此接口，可以替换召回使用的特征表示，无需修改召回逻辑。
type ItemExtractor interface {
	// Extract 从内容条目中抽取稀疏特征向量。必须是纯函数：相同输入得到相同输出。
	Extract(item *core.ContentItem) Vector

	// Name 返回抽取器名称（用于日志/监控）
	Name() string
}

const (
	DefaultTopicBoost = 3.0
	DefaultTagBoost   = 2.0
)

// TextExtractor 是默认的特征抽取器：正文词频 + 主题加权 + 标签加权。
//
// 抽取规则：
//   - 正文（title + body）分词后按原始词频计数
//   - 主主题 +TopicBoost（默认 3）
//   - 每个标签 +TagBoost（默认 2）
//
// 正文为空时只有主题/标签分量。
type TextExtractor struct {
	TopicBoost     float64
	TagBoost       float64
	MinTokenLength int
	// IncludeTitle 为 true 时标题参与分词
	IncludeTitle bool
}

// TextExtractorOption 抽取器配置选项
type TextExtractorOption func(*TextExtractor)

// WithTopicBoost 设置主题加权
func WithTopicBoost(boost float64) TextExtractorOption {
	return func(e *TextExtractor) {
		e.TopicBoost = boost
	}
}

// WithTagBoost 设置标签加权
func WithTagBoost(boost float64) TextExtractorOption {
	return func(e *TextExtractor) {
		e.TagBoost = boost
	}
}

// WithMinTokenLength 设置 token 最小长度
func WithMinTokenLength(n int) TextExtractorOption {
	return func(e *TextExtractor) {
		e.MinTokenLength = n
	}
}

// WithTitle 让标题参与分词
func WithTitle() TextExtractorOption {
	return func(e *TextExtractor) {
		e.IncludeTitle = true
	}
}

// NewTextExtractor 创建文本特征抽取器
func NewTextExtractor(opts ...TextExtractorOption) *TextExtractor {
	e := &TextExtractor{
		TopicBoost:     DefaultTopicBoost,
		TagBoost:       DefaultTagBoost,
		MinTokenLength: DefaultMinTokenLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *TextExtractor) Name() string {
	return "text"
}

func (e *TextExtractor) Extract(item *core.ContentItem) Vector {
	v := make(Vector)
	if item == nil {
		return v
	}
	text := item.Body
	if e.IncludeTitle && item.Title != "" {
		text = item.Title + " " + text
	}
	for _, tok := range Tokenize(text, e.MinTokenLength) {
		v[tok]++
	}
	if k := termKey(item.Topic); k != "" && e.TopicBoost != 0 {
		v[k] += e.TopicBoost
	}
	if e.TagBoost != 0 {
		for _, tag := range item.Tags {
			if k := termKey(tag); k != "" {
				v[k] += e.TagBoost
			}
		}
	}
	return v
}

var defaultExtractor = NewTextExtractor()

// ExtractFeatures 使用默认配置抽取特征。
func ExtractFeatures(item *core.ContentItem) Vector {
	return defaultExtractor.Extract(item)
}

// Profile 把多个条目的特征向量求和，得到学习者的兴趣画像。
func Profile(ext ItemExtractor, items []*core.ContentItem) Vector {
	profile := make(Vector)
	for _, it := range items {
		profile.Add(ext.Extract(it))
	}
	return profile
}
