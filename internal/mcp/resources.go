// ABOUTME: MCP resource implementations for gym sessions.
// ABOUTME: Provides gym://recent and gym://stats resources.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// gym://recent - Last 10 sessions
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gym://recent",
		Name:        "Recent Gym Sessions",
		Description: "Last 10 logged gym sessions",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// gym://stats - Dashboard of counts and rates
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gym://stats",
		Name:        "Gym Statistics",
		Description: "Session counts by category, gym and month plus visit rates",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.repo.ListSessions(s.table.Name, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	}
	return jsonResource("gym://recent", result)
}

func (s *Server) handleStatsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	stats, err := s.collectStats(now)
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"generated_at": now.Format(time.RFC3339),
		"stats":        stats,
	}
	return jsonResource("gym://stats", result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
