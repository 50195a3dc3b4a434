package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/learnrec/core"
)

// Observer 在每个 Node 执行完成后被调用，用于日志/监控打点。
type Observer func(node Node, in, out int, elapsed time.Duration, err error)

// Pipeline 是推荐链路的核心抽象：把推荐逻辑拆成可组合的 Node 链。
type Pipeline struct {
	Name     string
	Nodes    []Node
	Observer Observer
}

// New 创建 Pipeline。
func New(name string, nodes ...Node) *Pipeline {
	return &Pipeline{Name: name, Nodes: nodes}
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		next, err := node.Process(ctx, rctx, cur)
		if p.Observer != nil {
			p.Observer(node, len(cur), len(next), time.Since(start), err)
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: node %s: %w", p.Name, node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// WithObserver 返回挂载了 Observer 的浅拷贝，原 Pipeline 不变。
func (p *Pipeline) WithObserver(obs Observer) *Pipeline {
	cp := *p
	cp.Observer = obs
	return &cp
}

// NodeNames 返回按顺序排列的 Node 名称（用于校验/展示）。
func (p *Pipeline) NodeNames() []string {
	out := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		out = append(out, n.Name())
	}
	return out
}
