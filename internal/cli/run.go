package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolmesh/dagcore/internal/task"
)

func newRunCmd(configPath, toolAddr *string) *cobra.Command {
	var dagPath string
	var workflowID string
	var intentText string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a DAG from a JSON file and print the execution report",
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

			h, err := app.Executor.ExecuteStream(cmd.Context(), dag, workflowID)
			if err != nil {
				return err
			}
			for range h.Events {
			}
			report, err := h.Wait()
			if err != nil {
				return err
			}
			recordOutcome(cmd.Context(), app, intentText, dag, report)
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&dagPath, "dag", "", "path to a DAG JSON file")
	cmd.Flags().StringVar(&workflowID, "workflow-id", "", "workflow id reported on emitted events")
	cmd.Flags().StringVar(&intentText, "intent", "", "the user intent this DAG was planned for, recorded with its trace")
	_ = cmd.MarkFlagRequired("dag")

	return cmd
}

func loadDAG(path string) (task.DAG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return task.DAG{}, fmt.Errorf("cli: read dag file %s: %w", path, err)
	}
	var dag task.DAG
	if err := json.Unmarshal(data, &dag); err != nil {
		return task.DAG{}, fmt.Errorf("cli: parse dag file %s: %w", path, err)
	}
	return dag, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
