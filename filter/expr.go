package filter

import (
	"context"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/pkg/dsl"
)

// ExprFilter 使用 CEL 规则表达式过滤：表达式描述"保留"条件，结果为 false 的条目被过滤。
//
// 示例：
//   - `!("advanced" in item.tags)`
//   - `item.engagement_cost <= 50.0`
type ExprFilter struct {
	Rule *dsl.Rule
}

// NewExprFilter 编译表达式并创建过滤器。
func NewExprFilter(expr string) (*ExprFilter, error) {
	rule, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.ErrInvalidInput(core.ModuleEngine, "candidate rule: %v", err)
	}
	return &ExprFilter{Rule: rule}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.Rule.Evaluate(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
