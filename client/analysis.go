package client

import (
	"context"
	"net/url"
)

// AnalysisService submits analysis results for messages.
type AnalysisService struct {
	c *Client
}

// Ingest submits one analysis result and returns the updated message and
// its merged thread.
func (s *AnalysisService) Ingest(ctx context.Context, messageID string, in AnalysisInput) (*AnalysisResult, error) {
	var result AnalysisResult
	path := "/api/v1/messages/" + url.PathEscape(messageID) + "/analysis"
	if err := s.c.post(ctx, path, in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
