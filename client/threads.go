package client

import (
	"context"
	"net/url"
	"strconv"
)

// ThreadService reads threads, messages, and full-text search results.
type ThreadService struct {
	c *Client
}

type threadListResponse struct {
	Threads []Thread `json:"threads"`
	HasMore bool     `json:"has_more"`
}

// List returns threads matching the given options.
func (s *ThreadService) List(ctx context.Context, opts *ThreadListOptions) ([]Thread, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Topic != "" {
			params.Set("topic", opts.Topic)
		}
		if opts.SenderEmail != "" {
			params.Set("sender_email", opts.SenderEmail)
		}
		if opts.Unanalyzed {
			params.Set("unanalyzed", "true")
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp threadListResponse
	if err := s.c.get(ctx, "/api/v1/threads", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Threads, resp.HasMore, nil
}

// Get returns a single thread by ID.
func (s *ThreadService) Get(ctx context.Context, threadID string) (*Thread, error) {
	var thread Thread
	if err := s.c.get(ctx, "/api/v1/threads/"+url.PathEscape(threadID), nil, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

type messageListResponse struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
}

// Messages returns the messages of a thread, oldest first.
func (s *ThreadService) Messages(ctx context.Context, threadID string, limit, offset int) ([]Message, bool, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var resp messageListResponse
	if err := s.c.get(ctx, "/api/v1/threads/"+url.PathEscape(threadID)+"/messages", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Messages, resp.HasMore, nil
}

type searchResponse struct {
	Matches []Message `json:"matches"`
	HasMore bool      `json:"has_more"`
}

// Search runs a full-text search over message subjects and snippets.
func (s *ThreadService) Search(ctx context.Context, query string, limit, offset int) ([]Message, bool, error) {
	params := url.Values{}
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var resp searchResponse
	if err := s.c.get(ctx, "/api/v1/search", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Matches, resp.HasMore, nil
}
