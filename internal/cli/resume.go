package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResumeCmd(configPath, toolAddr *string) *cobra.Command {
	var dagPath string
	var checkpointID string
	var workflowID string
	var intentText string

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume a DAG execution from a saved checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			dag, err := loadDAG(dagPath)
			if err != nil {
				return err
			}

			app, err := NewApp(*configPath, *toolAddr)
			if err != nil {
				return err
			}
			defer app.Close()

			cp, err := app.Executor.Checkpoints.Load(cmd.Context(), checkpointID)
			if err != nil {
				return fmt.Errorf("cli: load checkpoint %s: %w", checkpointID, err)
			}

			report, err := app.Executor.Resume(cmd.Context(), dag, cp, workflowID)
			if err != nil {
				return err
			}
			recordOutcome(cmd.Context(), app, intentText, dag, report)
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&dagPath, "dag", "", "path to a DAG JSON file")
	cmd.Flags().StringVar(&checkpointID, "checkpoint", "", "checkpoint id to resume from")
	cmd.Flags().StringVar(&workflowID, "workflow-id", "", "workflow id reported on emitted events")
	cmd.Flags().StringVar(&intentText, "intent", "", "the user intent this DAG was planned for, recorded with its trace")
	_ = cmd.MarkFlagRequired("dag")
	_ = cmd.MarkFlagRequired("checkpoint")

	return cmd
}
