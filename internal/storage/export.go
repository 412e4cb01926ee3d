// ABOUTME: Export and import of gym sessions.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/harperreed/gym/internal/config"
	"github.com/harperreed/gym/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for a session table.
type ExportData struct {
	Version    string           `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Tool       string           `json:"tool" yaml:"tool"`
	Table      string           `json:"table" yaml:"table"`
	Sessions   []models.Session `json:"sessions" yaml:"sessions"`
}

// GetAllData retrieves every session of table for export.
func (d *DB) GetAllData(table string) (*ExportData, error) {
	sessions, err := d.ListSessions(table, 0)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "gym",
		Table:      table,
		Sessions:   sessions,
	}, nil
}

// ExportJSON exports all sessions as JSON.
func (d *DB) ExportJSON(table string) ([]byte, error) {
	data, err := d.GetAllData(table)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all sessions as YAML.
func (d *DB) ExportYAML(table string) ([]byte, error) {
	data, err := d.GetAllData(table)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown exports sessions as a Markdown table, optionally only those
// on or after since.
func (d *DB) ExportMarkdown(table string, since *time.Time) (string, error) {
	sessions, err := d.ListSessions(table, 0)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()
	sb.WriteString(fmt.Sprintf("# Gym Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))
	sb.WriteString("| Date | Category | Gym | Duration |\n")
	sb.WriteString("|------|----------|-----|----------|\n")
	for _, s := range sessions {
		if since != nil && s.Date < since.Format("2006-01-02") {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", s.Date, s.Category, s.GymName, s.Duration))
	}
	return sb.String(), nil
}

// ImportJSON inserts sessions from a JSON export. Rows rejected by a
// constraint are counted as skipped.
func (d *DB) ImportJSON(table config.TableSpec, data []byte, subset []string) (imported, skipped int, err error) {
	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		return 0, 0, fmt.Errorf("unmarshal JSON: %w", err)
	}
	for _, s := range export.Sessions {
		ok, err := d.InsertRow(table, s.Values())
		if err != nil {
			return imported, skipped, fmt.Errorf("import session %s: %w", s.Date, err)
		}
		if ok {
			imported++
		} else {
			skipped++
		}
	}
	if imported > 0 {
		if _, err := d.Dedup(table.Name, subset); err != nil {
			return imported, skipped, err
		}
	}
	return imported, skipped, nil
}
