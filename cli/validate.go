package cli

import (
	"github.com/spf13/cobra"

	"github.com/weftworks/weft/engine/workflow"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workflow.yaml>",
		Short: "Validate a workflow definition without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := workflow.Load(args[0])
			if err != nil {
				return err
			}
			sorted, err := wf.SortedJobs()
			if err != nil {
				return err
			}
			cmd.Printf("workflow %s is valid (%d jobs)\n", wf.ID, len(sorted))
			for _, job := range sorted {
				cmd.Printf("  %s (tool=%s, deps=%d, assignments=%d)\n",
					job.ID, job.Tool, len(job.Dependencies), len(job.Assignments))
			}
			return nil
		},
	}
}
