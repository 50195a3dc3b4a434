package cli

import (
	"github.com/spf13/cobra"
)

func newPipelineCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Inspect pipeline configuration files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a pipeline file and print its nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadWeakPipeline(args[0])
			if err != nil {
				return err
			}
			names := p.NodeNames()
			rows := make([][]string, 0, len(names))
			for i, n := range names {
				rows = append(rows, []string{itoa(i + 1), n, string(p.Nodes[i].Kind())})
			}
			return render(cmd.OutOrStdout(), opts.outputFmt, names, []string{"#", "NODE", "KIND"}, rows)
		},
	})
	return cmd
}
