package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// AuditService reads the audit log. Requires an admin API key. The log is
// append-only server-side, so there are no write or delete methods here.
type AuditService struct {
	c *Client
}

type auditQueryResponse struct {
	Entries []AuditEntry `json:"entries"`
	HasMore bool         `json:"has_more"`
}

// Query returns audit log entries matching the given options.
func (s *AuditService) Query(ctx context.Context, opts *AuditQueryOptions) ([]AuditEntry, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.TargetType != "" {
			params.Set("target_type", opts.TargetType)
		}
		if opts.TargetID != "" {
			params.Set("target_id", opts.TargetID)
		}
		if opts.Action != "" {
			params.Set("action", opts.Action)
		}
		if opts.PrincipalID != "" {
			params.Set("principal_id", opts.PrincipalID)
		}
		if opts.Since != nil {
			params.Set("since", opts.Since.Format(time.RFC3339))
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp auditQueryResponse
	if err := s.c.get(ctx, "/api/v1/audit", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Entries, resp.HasMore, nil
}
