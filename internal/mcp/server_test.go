// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/harperreed/gym/internal/config"
	"github.com/harperreed/gym/internal/models"
	"github.com/harperreed/gym/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var sessionsTable = config.TableSpec{
	Name: "gym_sessions",
	Columns: []config.ColumnSpec{
		{Name: "id", Type: "integer", Flags: config.PrimaryKey | config.Autoincrement},
		{Name: "date", Type: "text"},
		{Name: "duration", Type: "text"},
		{Name: "gym_name", Type: "text"},
		{Name: "category", Type: "text"},
	},
}

var dedupColumns = []string{"date", "duration", "gym_name", "category"}

// setupTestServer creates a server over a fresh database in a temp directory.
func setupTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	db, err := storage.Open(t.TempDir() + "/gym.db")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.EnsureTables([]config.TableSpec{sessionsTable}); err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}

	server, err := NewServer(db, sessionsTable, dedupColumns)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

func seed(t *testing.T, db *storage.DB, sessions ...models.Session) {
	t.Helper()
	for _, s := range sessions {
		if _, err := db.AddSession(sessionsTable, s, dedupColumns); err != nil {
			t.Fatalf("AddSession failed: %v", err)
		}
	}
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.table.Name != "gym_sessions" {
		t.Errorf("table = %s, want gym_sessions", server.table.Name)
	}
}

func TestHandleAddSession(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addSessionInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "full session",
			input: addSessionInput{Date: "2024-05-01", Duration: "1:00:00", GymName: "Downtown", Category: "Strength"},
		},
		{
			name:  "date defaults to today",
			input: addSessionInput{Duration: "0:45:00", GymName: "Uptown", Category: "Cardio"},
		},
		{
			name:      "missing gym",
			input:     addSessionInput{Date: "2024-05-01", Duration: "1:00:00", Category: "Strength"},
			wantErr:   true,
			errSubstr: "required",
		},
		{
			name:      "bad duration",
			input:     addSessionInput{Date: "2024-05-01", Duration: "90 min", GymName: "Downtown", Category: "Strength"},
			wantErr:   true,
			errSubstr: "invalid duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddSession(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !output.Accepted {
				t.Error("Expected session to be accepted")
			}
			if output.Session.Date == "" {
				t.Error("Expected date to be filled in")
			}
			if output.Message == "" {
				t.Error("Expected non-empty message")
			}
		})
	}
}

func TestHandleAddSessionDefaultDate(t *testing.T) {
	server, _ := setupTestServer(t)

	_, output, err := server.handleAddSession(context.Background(), &mcp.CallToolRequest{},
		addSessionInput{Duration: "0:30:00", GymName: "Downtown", Category: "Yoga"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if want := time.Now().Format("2006-01-02"); output.Session.Date != want {
		t.Errorf("Date = %s, want %s", output.Session.Date, want)
	}
}

func TestHandleListSessions(t *testing.T) {
	server, db := setupTestServer(t)
	seed(t, db,
		models.Session{Date: "2024-01-01", Duration: "1:00:00", GymName: "A", Category: "Strength"},
		models.Session{Date: "2024-01-02", Duration: "1:00:00", GymName: "B", Category: "Cardio"},
		models.Session{Date: "2024-01-02", Duration: "0:30:00", GymName: "A", Category: "Yoga"},
	)
	ctx := context.Background()

	_, output, err := server.handleListSessions(ctx, &mcp.CallToolRequest{}, listSessionsInput{Limit: 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	sessions, ok := output.([]models.Session)
	if !ok {
		t.Fatalf("Expected []models.Session, got %T", output)
	}
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(sessions))
	}

	_, output, err = server.handleListSessions(ctx, &mcp.CallToolRequest{}, listSessionsInput{Date: "2024-01-02"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	sessions, _ = output.([]models.Session)
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions on 2024-01-02, got %d", len(sessions))
	}
}

func TestHandleListSessionsEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	_, output, err := server.handleListSessions(context.Background(), &mcp.CallToolRequest{}, listSessionsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	msg, ok := output.(map[string]any)
	if !ok || msg["message"] != "No sessions found." {
		t.Errorf("Expected empty message, got %v", output)
	}
}

func TestHandleDeleteSessions(t *testing.T) {
	server, db := setupTestServer(t)
	seed(t, db,
		models.Session{Date: "2024-01-01", Duration: "1:00:00", GymName: "A", Category: "Strength"},
		models.Session{Date: "2024-01-01", Duration: "0:20:00", GymName: "B", Category: "Cardio"},
	)
	ctx := context.Background()

	_, output, err := server.handleDeleteSessions(ctx, &mcp.CallToolRequest{}, deleteSessionsInput{Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.Deleted != 2 {
		t.Errorf("Deleted = %d, want 2", output.Deleted)
	}

	if _, _, err := server.handleDeleteSessions(ctx, &mcp.CallToolRequest{}, deleteSessionsInput{Date: "2024-01-01"}); err == nil {
		t.Error("Expected error when nothing is left to delete")
	}
	if _, _, err := server.handleDeleteSessions(ctx, &mcp.CallToolRequest{}, deleteSessionsInput{}); err == nil {
		t.Error("Expected error for missing date")
	}
}

func TestHandleSessionStats(t *testing.T) {
	server, db := setupTestServer(t)
	seed(t, db,
		models.Session{Date: "2024-01-01", Duration: "1:00:00", GymName: "A", Category: "Strength"},
		models.Session{Date: "2024-01-08", Duration: "0:30:00", GymName: "A", Category: "Strength"},
		models.Session{Date: "2024-02-01", Duration: "1:30:00", GymName: "B", Category: "Cardio"},
	)

	_, output, err := server.handleSessionStats(context.Background(), &mcp.CallToolRequest{}, statsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(output.ByCategory) != 2 || output.ByCategory[0].Label != "Strength" {
		t.Errorf("ByCategory = %+v", output.ByCategory)
	}
	if len(output.ByMonth) != 2 {
		t.Errorf("ByMonth = %+v", output.ByMonth)
	}
	if output.AverageDuration != "1:00:00" {
		t.Errorf("AverageDuration = %s, want 1:00:00", output.AverageDuration)
	}
	if output.Span.Sessions != 3 {
		t.Errorf("Span.Sessions = %d, want 3", output.Span.Sessions)
	}
}

func TestHandleSessionStatsEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	_, output, err := server.handleSessionStats(context.Background(), &mcp.CallToolRequest{}, statsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.AverageDuration != "" || output.Span.Sessions != 0 {
		t.Errorf("Expected empty stats, got %+v", output)
	}
}

func TestHandleRecentResource(t *testing.T) {
	server, db := setupTestServer(t)
	seed(t, db, models.Session{Date: "2024-01-01", Duration: "1:00:00", GymName: "A", Category: "Strength"})

	result, err := server.handleRecentResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Contents) == 0 {
		t.Fatal("Expected non-empty contents")
	}
	if result.Contents[0].URI != "gym://recent" {
		t.Errorf("URI = %s, want gym://recent", result.Contents[0].URI)
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %s, want application/json", result.Contents[0].MIMEType)
	}

	var payload struct {
		Sessions []models.Session `json:"sessions"`
		Count    int              `json:"count"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if payload.Count != 1 || payload.Sessions[0].GymName != "A" {
		t.Errorf("Unexpected payload: %+v", payload)
	}
}

func TestHandleStatsResource(t *testing.T) {
	server, db := setupTestServer(t)
	seed(t, db, models.Session{Date: "2024-01-01", Duration: "1:00:00", GymName: "A", Category: "Strength"})

	result, err := server.handleStatsResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "gym://stats" {
		t.Errorf("URI = %s, want gym://stats", result.Contents[0].URI)
	}
	if !strings.Contains(result.Contents[0].Text, `"generated_at"`) {
		t.Error("Expected generated_at in stats resource")
	}
	if !strings.Contains(result.Contents[0].Text, `"Strength"`) {
		t.Error("Expected category counts in stats resource")
	}
}
