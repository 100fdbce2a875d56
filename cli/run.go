package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftworks/weft/engine/agent"
	"github.com/weftworks/weft/engine/infra/store"
	"github.com/weftworks/weft/engine/runtime"
	"github.com/weftworks/weft/engine/tool"
	"github.com/weftworks/weft/engine/workflow"
	"github.com/weftworks/weft/pkg/config"
	"github.com/weftworks/weft/pkg/logger"
)

func runCmd() *cobra.Command {
	var inputText string
	cmd := &cobra.Command{
		Use:   "run <workflow.yaml>",
		Short: "Execute a workflow definition in-memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := loggerFromFlags(cmd)
			if err != nil {
				return err
			}
			ctx := logger.ContextWithLogger(cmd.Context(), log)

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			wf, err := workflow.Load(args[0])
			if err != nil {
				return err
			}
			mem := store.NewMemory()
			registry, err := tool.NewRegistry(
				tool.NewConversationTool(
					mem,
					mem.Artifacts(),
					agent.NewLangchainRunner(),
					wf.AgentIndex(),
					tool.RetrySettings{
						Attempts:    cfg.Runtime.RetryAttempts,
						BackoffBase: cfg.Runtime.RetryBackoffBase,
						BackoffMax:  cfg.Runtime.RetryBackoffMax,
					},
				),
				tool.NewTranscodeTool(mem, mem, tool.NewPDFConverter()),
				tool.NewDBWriteTool(mem, mem.Artifacts(), mem, cfg.Runtime.RecordCollection),
			)
			if err != nil {
				return err
			}
			orchestrator := runtime.NewOrchestrator(mem, mem, mem.Artifacts(), registry, cfg.Runtime.TaskConcurrency)

			input := &workflow.RunInput{Content: inputText}
			run, err := orchestrator.ExecuteRun(ctx, wf, input)
			if err != nil {
				return err
			}
			return printRunSummary(cmd, ctx, mem, run)
		},
	}
	cmd.Flags().StringVar(&inputText, "input", "", "workflow top-level input text")
	return cmd
}

func printRunSummary(cmd *cobra.Command, ctx context.Context, mem *store.Memory, run *workflow.RunState) error {
	jobRuns, err := mem.ListJobRuns(ctx, run.RunID)
	if err != nil {
		return err
	}
	cmd.Printf("run %s finished: %s\n", run.RunID, run.Status)
	for _, jr := range jobRuns {
		tasks, err := mem.ListByJobRun(ctx, jr.JobRunID)
		if err != nil {
			return err
		}
		cmd.Printf("  job %-20s %-9s tasks=%d\n", jr.JobID, jr.Status, len(tasks))
		for _, t := range tasks {
			line := fmt.Sprintf("    task %s [%s] group=%q", t.TaskExecID, t.Status, t.GroupLabel)
			if t.Error != nil {
				line += " error=" + t.Error.Message
			}
			cmd.Println(line)
		}
	}
	return nil
}
