package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/learnrec/core"
)

// appendNode 在列表末尾追加一个以自身名称为 ID 的条目。
type appendNode struct {
	name string
	kind Kind
	err  error
}

func (n *appendNode) Name() string { return n.name }
func (n *appendNode) Kind() Kind   { return n.kind }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(n.name)), nil
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestPipeline_RunOrder(t *testing.T) {
	p := New("test",
		&appendNode{name: "a", kind: KindRecall},
		&appendNode{name: "b", kind: KindFilter},
		&appendNode{name: "c", kind: KindRank},
	)
	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(items))
	assert.Equal(t, []string{"a", "b", "c"}, p.NodeNames())
}

func TestPipeline_Observer(t *testing.T) {
	type call struct {
		node    string
		in, out int
	}
	var calls []call
	base := New("test", &appendNode{name: "a"}, &appendNode{name: "b"})
	p := base.WithObserver(func(node Node, in, out int, _ time.Duration, err error) {
		assert.NoError(t, err)
		calls = append(calls, call{node: node.Name(), in: in, out: out})
	})
	_, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []call{{"a", 0, 1}, {"b", 1, 2}}, calls)
	assert.Nil(t, base.Observer, "WithObserver 不应修改原 Pipeline")
}

func TestPipeline_ErrorWrapping(t *testing.T) {
	boom := errors.New("boom")
	var observed error
	p := New("weak_topic", &appendNode{name: "a"}, &appendNode{name: "bad", err: boom}, &appendNode{name: "never"})
	p.Observer = func(_ Node, _, _ int, _ time.Duration, err error) {
		if err != nil {
			observed = err
		}
	}
	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pipeline weak_topic: node bad")
	assert.Equal(t, boom, observed)
}

func TestPipeline_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New("test", &appendNode{name: "a"}).Run(ctx, &core.RecommendContext{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
pipeline:
  name: weak_topic
  nodes:
    - type: recall.weak_topic
    - type: rerank.topn
      config:
        n: 3
`))
	require.NoError(t, err)
	assert.Equal(t, "weak_topic", cfg.Pipeline.Name)
	require.Len(t, cfg.Pipeline.Nodes, 2)
	assert.Equal(t, 3, cfg.Pipeline.Nodes[1].Config["n"])

	_, err = ParseYAML([]byte("pipeline:\n  name: empty\n"))
	assert.Error(t, err)

	_, err = ParseJSON([]byte(`{"pipeline":{"name":"x","nodes":[{"type":""}]}}`))
	assert.Error(t, err)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pipeline":{"name":"x","nodes":[{"type":"a"},{"type":"b"}]}}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	f := NewNodeFactory()
	f.Register("a", func(map[string]any) (Node, error) { return &appendNode{name: "a"}, nil })
	_, err = cfg.BuildPipeline(f)
	assert.Error(t, err, "b 未注册")

	f.Register("b", func(map[string]any) (Node, error) { return &appendNode{name: "b"}, nil })
	p, err := cfg.BuildPipeline(f)
	require.NoError(t, err)
	assert.Equal(t, "x", p.Name)
	assert.Equal(t, []string{"a", "b"}, p.NodeNames())
}
