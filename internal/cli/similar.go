package cli

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/learnrec/core"
)

func newSimilarCommand(opts *rootOptions) *cobra.Command {
	var (
		learner string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Score unread content by similarity to what a learner has read",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			catalog, err := a.catalog.ListItems(cmd.Context())
			if err != nil {
				return err
			}
			perfs, err := a.perf.ListPerformances(cmd.Context(), learner)
			if err != nil {
				return err
			}
			snapshot := core.NewLearnerSnapshot(learner, perfs)

			var read, candidates []*core.ContentItem
			for _, it := range catalog {
				if snapshot.HasRead(it.ID) {
					read = append(read, it)
				} else {
					candidates = append(candidates, it)
				}
			}
			recs, err := a.engine.ScoreContentSimilarity(cmd.Context(), read, candidates)
			if err != nil {
				return err
			}
			if limit > 0 && len(recs) > limit {
				recs = recs[:limit]
			}
			rows := make([][]string, 0, len(recs))
			for i, r := range recs {
				rows = append(rows, []string{itoa(i + 1), r.ContentItemID, formatFloat(r.RelevanceScore), r.Reason})
			}
			return render(cmd.OutOrStdout(), opts.outputFmt, recs, []string{"#", "CONTENT", "SCORE", "REASON"}, rows)
		},
	}
	cmd.Flags().StringVar(&learner, "learner", "", "learner id")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 = all)")
	_ = cmd.MarkFlagRequired("learner")
	return cmd
}
