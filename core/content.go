package core

// ContentItem 是一个可学习的内容单元（文章或带测验的主题）。
//
// 内容一经发布即不可变，由内容目录（外部协作方）持有，推荐核心只读。
//
// Difficulty 可以是 [0,1] 归一化难度，也可以是类似 XP 的整数值：
//   - 排序器的目标难度 / 难度带语义假设归一化取值
//   - 启发式打分使用可配置的归一化跨度（默认 30，XP 单位）
type ContentItem struct {
	ID             string   `json:"id" yaml:"id" validate:"required"`
	Title          string   `json:"title" yaml:"title"`
	Body           string   `json:"body,omitempty" yaml:"body,omitempty"`
	Topic          string   `json:"topic" yaml:"topic" validate:"required"`
	Topics         []string `json:"topics,omitempty" yaml:"topics,omitempty"` // 次要主题（可选）
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Difficulty     float64  `json:"difficulty" yaml:"difficulty" validate:"gte=0"`
	EngagementCost float64  `json:"engagement_cost,omitempty" yaml:"engagement_cost,omitempty" validate:"gte=0"` // XP / 预计耗时
	Prerequisites  []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
}

// Validate 校验必填字段与取值范围，失败返回 INVALID_INPUT。
func (c *ContentItem) Validate() error {
	if c == nil {
		return ErrInvalidInput(ModuleContent, "nil content item")
	}
	return validateStruct(ModuleContent, c)
}

// AllTopics 返回主主题 + 次要主题（去重，保持顺序）。
func (c *ContentItem) AllTopics() []string {
	out := make([]string, 0, 1+len(c.Topics))
	seen := make(map[string]struct{}, 1+len(c.Topics))
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	add(c.Topic)
	for _, t := range c.Topics {
		add(t)
	}
	return out
}

// HasTopic 检查条目是否属于某个主题（主主题或次要主题）。
func (c *ContentItem) HasTopic(topic string) bool {
	if c.Topic == topic {
		return true
	}
	for _, t := range c.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// ValidateCatalog 逐条校验目录，遇到第一个非法条目即返回。
func ValidateCatalog(items []*ContentItem) error {
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}
