package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/municipallabs/corecrm/client"
	"github.com/spf13/cobra"
)

func newThreadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Inspect correspondence threads",
	}
	cmd.AddCommand(threadListCmd())
	cmd.AddCommand(threadGetCmd())
	cmd.AddCommand(threadMessagesCmd())
	return cmd
}

func threadListCmd() *cobra.Command {
	var (
		topic       string
		senderEmail string
		unanalyzed  bool
		limit       int
		offset      int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List threads",
		Run: func(cmd *cobra.Command, args []string) {
			threads, hasMore, err := apiClient.Threads.List(context.Background(), &client.ThreadListOptions{
				Topic:       topic,
				SenderEmail: senderEmail,
				Unanalyzed:  unanalyzed,
				Limit:       limit,
				Offset:      offset,
			})
			if err != nil {
				fatal("thread list", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "TOPIC", "SENDER", "MESSAGES", "LAST_MESSAGE"}
				var rows [][]string
				for _, th := range threads {
					last := "-"
					if th.LastMessageAt != nil {
						last = th.LastMessageAt.Format("2006-01-02 15:04:05")
					}
					rows = append(rows, []string{
						th.ID, strOrDash(th.Topic), strOrDash(th.SenderEmail),
						strconv.Itoa(th.MessageCount), last,
					})
				}
				formatTable(headers, rows)
				if hasMore {
					fmt.Println("(more results available)")
				}
				return
			}
			output(map[string]any{"threads": threads, "has_more": hasMore}, "")
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "Filter by topic")
	cmd.Flags().StringVar(&senderEmail, "sender", "", "Filter by sender email")
	cmd.Flags().BoolVar(&unanalyzed, "unanalyzed", false, "Only threads with no analysis yet")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Pagination offset")
	return cmd
}

func threadGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <thread-id>",
		Short: "Get a single thread",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			thread, err := apiClient.Threads.Get(context.Background(), args[0])
			if err != nil {
				fatal("thread get", err)
			}
			output(thread, thread.ID)
		},
	}
}

func threadMessagesCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "messages <thread-id>",
		Short: "List the messages of a thread",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			messages, hasMore, err := apiClient.Threads.Messages(context.Background(), args[0], limit, offset)
			if err != nil {
				fatal("thread messages", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "SENDER", "SUBJECT", "URGENCY", "RECEIVED"}
				var rows [][]string
				for _, m := range messages {
					urgency := m.UrgencyLevel
					if urgency == "" {
						urgency = "-"
					}
					rows = append(rows, []string{
						m.ID, m.SenderEmail, m.Subject, urgency,
						m.ReceivedAt.Format("2006-01-02 15:04:05"),
					})
				}
				formatTable(headers, rows)
				return
			}
			output(map[string]any{"messages": messages, "has_more": hasMore}, "")
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Pagination offset")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over messages",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			matches, hasMore, err := apiClient.Threads.Search(context.Background(), args[0], limit, offset)
			if err != nil {
				fatal("search", err)
			}
			output(map[string]any{"matches": matches, "has_more": hasMore}, "")
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Pagination offset")
	return cmd
}
