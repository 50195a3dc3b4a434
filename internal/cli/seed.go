package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a fixture file into the configured store",
		Long: `Load the catalog and performance records of --data into the store
configured by --config (useful with the redis or badger backend).

Examples:
  LEARNREC_STORE_BACKEND=badger LEARNREC_STORE_BADGER_PATH=./data learnrec seed --data fixture.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dataPath == "" {
				return fmt.Errorf("--data is required")
			}
			fx, err := LoadFixture(opts.dataPath)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			summary := map[string]int{"items": len(fx.Catalog), "learners": len(fx.Performances)}
			rows := [][]string{
				{"items", itoa(summary["items"])},
				{"learners", itoa(summary["learners"])},
			}
			return render(cmd.OutOrStdout(), opts.outputFmt, summary, []string{"KIND", "COUNT"}, rows)
		},
	}
}
