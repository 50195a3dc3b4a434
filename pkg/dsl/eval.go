package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/learnrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("learner", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是编译后的规则表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，可在多个请求、多个 goroutine 中并发复用。
//
// 可用变量：
//   - item.id / item.score / item.topic / item.topics / item.tags / item.difficulty / item.engagement_cost
//   - label.<key>：条目 Label 的 value（如 label.recall_source）
//   - learner.id / learner.mastery / learner.target_difficulty / learner.weak_topics / learner.scene / learner.params
//
// 示例：
//   - `item.difficulty <= learner.target_difficulty + 0.3`
//   - `item.topic in learner.weak_topics`
//   - `label.recall_source == "weak_topic" && item.score > -0.1`
//   - `!("advanced" in item.tags)`
type Rule struct {
	expr string
	prg  cel.Program
}

// Compile 编译规则表达式。空表达式恒为 true。
func Compile(expr string) (*Rule, error) {
	r := &Rule{expr: expr}
	if expr == "" {
		return r, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}
	r.prg = prg
	return r, nil
}

// MustCompile 同 Compile，失败时 panic（用于包级变量初始化）。
func MustCompile(expr string) *Rule {
	r, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// String 返回原始表达式。
func (r *Rule) String() string { return r.expr }

// Evaluate 在条目与请求上下文上执行规则，返回布尔结果。
//
// 注意：访问不存在的 label key 会返回错误，请先用 `"key" in label` 判断存在性。
func (r *Rule) Evaluate(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if r == nil || r.prg == nil {
		return true, nil
	}
	out, _, err := r.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", r.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression %q must return bool, got %T", r.expr, out.Value())
	}
	return result, nil
}

// Eval 是一次性求值的便捷函数（每次都会编译，热路径请使用 Compile）。
func Eval(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	r, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return r.Evaluate(item, rctx)
}

func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any)
	itemMap := map[string]any{
		"id":              "",
		"score":           0.0,
		"topic":           "",
		"topics":          []string{},
		"tags":            []string{},
		"difficulty":      0.0,
		"engagement_cost": 0.0,
		"features":        map[string]float64{},
	}
	if it != nil {
		for k, v := range it.Labels {
			labels[k] = v.Value
		}
		itemMap["id"] = it.ID
		itemMap["score"] = it.Score
		if it.Features != nil {
			itemMap["features"] = it.Features
		}
		if c := it.Content; c != nil {
			itemMap["topic"] = c.Topic
			itemMap["topics"] = c.AllTopics()
			itemMap["tags"] = nonNil(c.Tags)
			itemMap["difficulty"] = c.Difficulty
			itemMap["engagement_cost"] = c.EngagementCost
		}
	}

	learner := map[string]any{
		"id":                "",
		"scene":             "",
		"mastery":           0.0,
		"target_difficulty": 0.0,
		"weak_topics":       []string{},
		"params":            map[string]any{},
	}
	if rctx != nil {
		learner["id"] = rctx.LearnerID
		learner["scene"] = rctx.Scene
		learner["mastery"] = rctx.MasteryLevel
		learner["target_difficulty"] = rctx.TargetDifficulty
		learner["weak_topics"] = nonNil(rctx.WeakTopics)
		if rctx.Params != nil {
			learner["params"] = rctx.Params
		}
	}

	return map[string]any{
		"item":    itemMap,
		"label":   labels,
		"learner": learner,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
