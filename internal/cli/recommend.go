package cli

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/learnrec/engine"
)

func newRecommendCommand(opts *rootOptions) *cobra.Command {
	var (
		learner string
		limit   int
		mastery float64
		due     bool
		scene   string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend content for a learner",
		Long: `Recommend what a learner should study next.

Examples:
  learnrec recommend --learner u1 --data fixture.yaml
  learnrec recommend --learner u1 --limit 3 --mastery 0.4
  learnrec recommend --learner u1 --due -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("limit") {
				limit = a.engine.DefaultLimit()
			}
			var reqOpts []engine.RequestOption
			if cmd.Flags().Changed("mastery") {
				reqOpts = append(reqOpts, engine.WithMastery(mastery))
			}
			if due {
				reqOpts = append(reqOpts, engine.WithDueCheck())
			}
			if scene != "" {
				reqOpts = append(reqOpts, engine.WithScene(scene))
			}

			recs, err := a.engine.GetRecommendations(cmd.Context(), learner, limit, reqOpts...)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(recs))
			for i, r := range recs {
				rows = append(rows, []string{itoa(i + 1), r.ContentItemID, formatFloat(r.RelevanceScore), r.Reason})
			}
			return render(cmd.OutOrStdout(), opts.outputFmt, recs, []string{"#", "CONTENT", "SCORE", "REASON"}, rows)
		},
	}
	cmd.Flags().StringVar(&learner, "learner", "", "learner id")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of recommendations (default from config)")
	cmd.Flags().Float64Var(&mastery, "mastery", 0, "override the learner's mastery level [0,1]")
	cmd.Flags().BoolVar(&due, "due", false, "exclude mastered content (review-due mode)")
	cmd.Flags().StringVar(&scene, "scene", "", "request scene, available to candidate rules")
	_ = cmd.MarkFlagRequired("learner")
	return cmd
}
