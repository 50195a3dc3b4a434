package cli

import (
	"github.com/spf13/cobra"
)

func newWeakAreasCommand(opts *rootOptions) *cobra.Command {
	var learner string
	cmd := &cobra.Command{
		Use:   "weak-areas",
		Short: "List a learner's weakest topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			topics, err := a.engine.GetWeakAreas(cmd.Context(), learner)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(topics))
			for i, t := range topics {
				rows = append(rows, []string{itoa(i + 1), t})
			}
			return render(cmd.OutOrStdout(), opts.outputFmt, topics, []string{"#", "TOPIC"}, rows)
		},
	}
	cmd.Flags().StringVar(&learner, "learner", "", "learner id")
	_ = cmd.MarkFlagRequired("learner")
	return cmd
}
