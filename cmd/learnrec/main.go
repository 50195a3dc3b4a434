package main

import (
	"os"

	"github.com/rushteam/learnrec/internal/cli"
)

// 版本信息（构建时通过 -ldflags 注入）
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cli.SetVersionInfo(Version, Commit)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
