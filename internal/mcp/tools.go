// ABOUTME: MCP tool implementations for gym sessions.
// ABOUTME: Provides listing, entry, deletion, and statistics over the session table.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/gym/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// list_sessions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List recent gym sessions, optionally only those on one date",
	}, s.handleListSessions)

	// add_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_session",
		Description: "Log a gym session (date, duration, gym, category)",
	}, s.handleAddSession)

	// delete_sessions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_sessions",
		Description: "Delete every session logged on a date",
	}, s.handleDeleteSessions)

	// session_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "session_stats",
		Description: "Session counts by category, gym and month, average duration, and visit rates",
	}, s.handleSessionStats)
}

// Tool input/output types

type listSessionsInput struct {
	Date  string `json:"date,omitempty" jsonschema:"Only sessions on this date (YYYY-MM-DD)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type addSessionInput struct {
	Date     string `json:"date,omitempty" jsonschema:"Session date (YYYY-MM-DD), defaults to today"`
	Duration string `json:"duration" jsonschema:"Duration as HH:MM:SS"`
	GymName  string `json:"gym_name" jsonschema:"Name of the gym"`
	Category string `json:"category" jsonschema:"Workout category (strength, cardio, yoga, etc.)"`
}

type sessionOutput struct {
	Session  models.Session `json:"session"`
	Accepted bool           `json:"accepted"`
	Message  string         `json:"message"`
}

type deleteSessionsInput struct {
	Date string `json:"date" jsonschema:"Date whose sessions are removed (YYYY-MM-DD)"`
}

type deleteOutput struct {
	Deleted int64  `json:"deleted"`
	Message string `json:"message"`
}

type statsInput struct{}

type statsOutput struct {
	ByCategory      []models.CountRow  `json:"by_category"`
	ByGym           []models.CountRow  `json:"by_gym"`
	ByMonth         []models.CountRow  `json:"by_month"`
	WeeklyFrequency []models.Frequency `json:"weekly_frequency"`
	AverageDuration string             `json:"average_duration,omitempty"`
	Span            models.SpanStats   `json:"span"`
}

// Tool handlers

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var sessions []models.Session
	var err error
	if input.Date != "" {
		sessions, err = s.repo.SessionsOn(s.table.Name, input.Date)
	} else {
		sessions, err = s.repo.ListSessions(s.table.Name, input.Limit)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		return nil, map[string]any{"message": "No sessions found."}, nil
	}

	return nil, sessions, nil
}

func (s *Server) handleAddSession(ctx context.Context, req *mcp.CallToolRequest, input addSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	session := models.Session{
		Date:     input.Date,
		Duration: input.Duration,
		GymName:  input.GymName,
		Category: input.Category,
	}
	if session.Date == "" {
		session.Date = time.Now().Format("2006-01-02")
	}

	ok, err := s.repo.AddSession(s.table, session, s.dedup)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to add session: %w", err)
	}

	msg := fmt.Sprintf("Logged %s at %s on %s (%s)", session.Category, session.GymName, session.Date, session.Duration)
	if !ok {
		msg = fmt.Sprintf("Session on %s at %s was rejected: already recorded", session.Date, session.GymName)
	}
	return nil, sessionOutput{Session: session, Accepted: ok, Message: msg}, nil
}

func (s *Server) handleDeleteSessions(ctx context.Context, req *mcp.CallToolRequest, input deleteSessionsInput) (*mcp.CallToolResult, deleteOutput, error) {
	if input.Date == "" {
		return nil, deleteOutput{}, fmt.Errorf("date is required")
	}

	n, err := s.repo.DeleteSessionsByDate(s.table.Name, input.Date)
	if err != nil {
		return nil, deleteOutput{}, fmt.Errorf("failed to delete sessions: %w", err)
	}
	if n == 0 {
		return nil, deleteOutput{}, fmt.Errorf("no sessions on %s", input.Date)
	}

	return nil, deleteOutput{
		Deleted: n,
		Message: fmt.Sprintf("Deleted %d session(s) on %s", n, input.Date),
	}, nil
}

func (s *Server) handleSessionStats(ctx context.Context, req *mcp.CallToolRequest, input statsInput) (*mcp.CallToolResult, statsOutput, error) {
	out, err := s.collectStats(time.Now())
	if err != nil {
		return nil, statsOutput{}, err
	}
	return nil, *out, nil
}

func (s *Server) collectStats(now time.Time) (*statsOutput, error) {
	table := s.table.Name
	var out statsOutput
	var err error

	if out.ByCategory, err = s.repo.SessionsByCategory(table); err != nil {
		return nil, fmt.Errorf("failed to count by category: %w", err)
	}
	if out.ByGym, err = s.repo.SessionsByGym(table); err != nil {
		return nil, fmt.Errorf("failed to count by gym: %w", err)
	}
	if out.ByMonth, err = s.repo.SessionsByMonth(table); err != nil {
		return nil, fmt.Errorf("failed to count by month: %w", err)
	}
	if out.WeeklyFrequency, err = s.repo.WeeklyFrequency(table); err != nil {
		return nil, fmt.Errorf("failed to compute weekly frequency: %w", err)
	}
	if avg, ok, err := s.repo.AverageDuration(table); err != nil {
		return nil, fmt.Errorf("failed to average durations: %w", err)
	} else if ok {
		out.AverageDuration = avg
	}
	if out.Span, err = s.repo.Span(table, now); err != nil {
		return nil, fmt.Errorf("failed to compute span: %w", err)
	}
	return &out, nil
}
