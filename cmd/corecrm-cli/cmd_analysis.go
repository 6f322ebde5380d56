package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/municipallabs/corecrm/client"
	"github.com/spf13/cobra"
)

func newAnalysisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analysis",
		Short: "Submit analysis results",
	}
	cmd.AddCommand(analysisIngestCmd())
	return cmd
}

func analysisIngestCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "ingest <message-id>",
		Short: "Ingest one analysis result for a message",
		Long:  "Reads an analysis JSON document from --file (or stdin) and submits it.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var data []byte
			var err error
			if file == "" || file == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(file)
			}
			if err != nil {
				fatal("read analysis input", err)
			}

			var in client.AnalysisInput
			if err := json.Unmarshal(data, &in); err != nil {
				fatal("parse analysis input", err)
			}

			result, err := apiClient.Analysis.Ingest(context.Background(), args[0], in)
			if err != nil {
				fatal("analysis ingest", err)
			}
			output(result, result.Message.ID)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Analysis JSON file (default: stdin)")
	return cmd
}
