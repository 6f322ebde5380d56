package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Trigger and inspect background tasks",
	}
	cmd.AddCommand(taskSyncCmd())
	cmd.AddCommand(taskProfileCmd())
	cmd.AddCommand(taskStatusCmd())
	return cmd
}

func taskSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run a mailbox sync and wait for it",
		Run: func(cmd *cobra.Command, args []string) {
			ref, err := apiClient.Tasks.TriggerSync(context.Background())
			if err != nil {
				fatal("task sync", err)
			}
			output(ref, ref.TaskID)
		},
	}
}

func taskProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile-rebuild",
		Short: "Start a constituent profile rebuild (admin)",
		Run: func(cmd *cobra.Command, args []string) {
			ref, err := apiClient.Tasks.TriggerProfileRebuild(context.Background())
			if err != nil {
				fatal("profile rebuild", err)
			}
			output(ref, ref.TaskID)
		},
	}
}

func taskStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show background task status",
		Run: func(cmd *cobra.Command, args []string) {
			tasks, err := apiClient.Tasks.Status(context.Background())
			if err != nil {
				fatal("task status", err)
			}
			if flagFmt == "table" {
				headers := []string{"TASK", "RUNNING", "LAST_FAILURE"}
				var rows [][]string
				for _, t := range tasks {
					failure := "-"
					if t.LastFailure != nil {
						failure = t.LastFailure.Error
					}
					rows = append(rows, []string{t.Task, strconv.FormatBool(t.Running), failure})
				}
				formatTable(headers, rows)
				return
			}
			output(tasks, "")
		},
	}
}
