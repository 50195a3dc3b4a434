// Package cli 是 learnrec 命令行入口：加载配置、打开存储、组装 engine.Engine，
// 并以表格或 JSON 输出推荐、薄弱点与复习调度结果。
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

// SetVersionInfo 设置构建版本信息。
func SetVersionInfo(v, c string) {
	version = v
	commit = c
}

// rootOptions 是所有子命令共享的全局参数。
type rootOptions struct {
	configPath string
	outputFmt  string
	dataPath   string
	now        string
}

// clockTime 解析 --now，为空时返回零值（使用系统时间）。
func (o *rootOptions) clockTime() (time.Time, error) {
	if o.now == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, o.now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", o.now, err)
	}
	return t, nil
}

// NewRootCommand 创建完整的命令树。每次调用返回独立实例，便于测试。
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "learnrec",
		Short: "Learning content recommendations and spaced repetition",
		Long: `learnrec recommends what a learner should study next.

It provides:
  - Weak-topic recommendations with difficulty targeting
  - Similarity and cold-start fallbacks
  - Spaced-repetition scheduling of reviews
  - Memory, Redis or Badger storage backends`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (YAML); LEARNREC_* environment variables override it")
	root.PersistentFlags().StringVarP(&opts.outputFmt, "output", "o", "table",
		"output format (table, json)")
	root.PersistentFlags().StringVar(&opts.dataPath, "data", "",
		"fixture file (YAML) loaded into the store before the command runs")
	root.PersistentFlags().StringVar(&opts.now, "now", "",
		"evaluate at this time (RFC3339) instead of the system clock")

	root.AddCommand(
		newVersionCommand(),
		newRecommendCommand(opts),
		newWeakAreasCommand(opts),
		newReviewCommand(opts),
		newScheduleCommand(opts),
		newSimilarCommand(opts),
		newSeedCommand(opts),
		newPipelineCommand(opts),
	)
	return root
}

// Execute 运行命令行。
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "learnrec %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		},
	}
}
