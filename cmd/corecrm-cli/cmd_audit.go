package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/municipallabs/corecrm/client"
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var (
		targetID, targetType, action, since string
		limit                               int
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the audit trail (admin)",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.AuditQueryOptions{
				TargetType: targetType,
				TargetID:   targetID,
				Action:     action,
				Limit:      limit,
			}
			if since != "" {
				t, err := time.Parse(time.RFC3339, since)
				if err != nil {
					fatal("audit query", fmt.Errorf("invalid --since, use RFC3339: %w", err))
				}
				opts.Since = &t
			}
			entries, _, err := apiClient.Audit.Query(context.Background(), opts)
			if err != nil {
				fatal("audit query", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "ACTION", "TARGET_TYPE", "TARGET_ID", "CREATED_AT"}
				var rows [][]string
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(e.ID, 10), e.Action, e.TargetType, e.TargetID,
						e.CreatedAt.Format("2006-01-02 15:04:05"),
					})
				}
				formatTable(headers, rows)
				return
			}
			output(entries, "")
		},
	}
	cmd.Flags().StringVar(&targetID, "target", "", "Filter by target ID")
	cmd.Flags().StringVar(&targetType, "target-type", "", "Filter by target type")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&since, "since", "", "Entries after this RFC3339 timestamp")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	return cmd
}
