// ABOUTME: Gym tool configuration: table declarations, spreadsheet source, startup flags.
// ABOUTME: Decodes the YAML document once, validates it, and rewrites flags in place.

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a malformed configuration document.
var ErrInvalid = errors.New("invalid configuration")

// Persisted startup flags.
const (
	FlagTablesCreated = "tables_created"
	FlagCSVLoaded     = "csv_loaded"
)

//go:embed default.yml
var defaultDocument []byte

// Config is the validated configuration document.
type Config struct {
	// Database is the SQLite file path. Supports ~ expansion.
	// Defaults to ~/.local/share/gym/gym.db.
	Database string

	Tables []TableSpec
	Files  FileSpec
	Flags  StateFlags

	path string
	doc  *yaml.Node
}

// StateFlags guard re-running one-time startup work.
type StateFlags struct {
	TablesCreated bool `yaml:"tables_created"`
	CSVLoaded     bool `yaml:"csv_loaded"`
}

// FileSpec describes the spreadsheet to ingest and how.
type FileSpec struct {
	Path  string   `yaml:"path"`
	Table string   `yaml:"table"`
	Mode  LoadMode `yaml:"mode"`
	Sheet string   `yaml:"sheet"`

	// RequiredColumn is the target column whose null rows are dropped.
	// Defaults to the second declared column of Table.
	RequiredColumn string `yaml:"required_column"`

	// TextColumns are coerced to text before an upsert.
	TextColumns []string `yaml:"text_columns"`

	// DedupColumns define row equality after manual inserts.
	// Defaults to every column except the autoincrement one.
	DedupColumns []string `yaml:"dedup_columns"`
}

type rawColumn struct {
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	PrimaryKey    bool   `yaml:"primary_key"`
	Autoincrement bool   `yaml:"autoincrement"`
	NotNull       bool   `yaml:"not_null"`
	Unique        bool   `yaml:"unique"`
	Source        string `yaml:"source"`
	ExcelColumn   string `yaml:"excel_column"`
}

type rawTable struct {
	Columns []rawColumn `yaml:"columns"`
}

type rawConfig struct {
	Database string     `yaml:"database"`
	Tables   yaml.Node  `yaml:"tables"`
	Files    FileSpec   `yaml:"files"`
	Flags    StateFlags `yaml:"flags"`
}

// DefaultPath returns the config file path following XDG spec.
func DefaultPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "gym", "gym.yml")
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "gym")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads and validates the config document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes a config document and validates it.
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: configuration must be a mapping", ErrInvalid)
	}

	var raw rawConfig
	if err := doc.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	tables, err := decodeTables(&raw.Tables)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: raw.Database,
		Tables:   tables,
		Files:    raw.Files,
		Flags:    raw.Flags,
		doc:      &doc,
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeTables walks the tables mapping node so declaration order is kept.
func decodeTables(node *yaml.Node) ([]TableSpec, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: tables must be a mapping of table name to columns", ErrInvalid)
	}

	tables := make([]TableSpec, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var rt rawTable
		if err := node.Content[i+1].Decode(&rt); err != nil {
			return nil, fmt.Errorf("%w: table %q: %v", ErrInvalid, name, err)
		}

		t := TableSpec{Name: name}
		for _, rc := range rt.Columns {
			col := ColumnSpec{
				Name:   rc.Name,
				Type:   rc.Type,
				Source: rc.Source,
			}
			if col.Source == "" {
				col.Source = rc.ExcelColumn
			}
			if rc.PrimaryKey {
				col.Flags |= PrimaryKey
			}
			if rc.Autoincrement {
				col.Flags |= Autoincrement
			}
			if rc.NotNull {
				col.Flags |= NotNull
			}
			if rc.Unique {
				col.Flags |= Unique
			}
			t.Columns = append(t.Columns, col)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (c *Config) applyDefaults() {
	if c.Files.Mode == "" {
		c.Files.Mode = ModeUpsert
	}
	t, ok := c.Table(c.Files.Table)
	if !ok {
		return
	}
	if c.Files.RequiredColumn == "" && len(t.Columns) >= 2 {
		c.Files.RequiredColumn = t.Columns[1].Name
	}
	if len(c.Files.DedupColumns) == 0 {
		for _, col := range t.Columns {
			if !col.Flags.Has(Autoincrement) {
				c.Files.DedupColumns = append(c.Files.DedupColumns, col.Name)
			}
		}
	}
}

// Validate checks every table declaration and the spreadsheet section.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: table %q declared twice", ErrInvalid, t.Name)
		}
		seen[t.Name] = true
	}
	return c.Files.validate(c)
}

func (f FileSpec) validate(c *Config) error {
	if f.Mode != ModeAppend && f.Mode != ModeUpsert {
		return fmt.Errorf("%w: unknown load mode %q (use append or upsert)", ErrInvalid, f.Mode)
	}
	if f.Table == "" {
		if f.Path != "" {
			return fmt.Errorf("%w: files.table is required when files.path is set", ErrInvalid)
		}
		return nil
	}

	t, ok := c.Table(f.Table)
	if !ok {
		return fmt.Errorf("%w: files.table %q is not declared", ErrInvalid, f.Table)
	}

	mapping := t.SourceMapping()
	if len(mapping) > 0 {
		if f.RequiredColumn == "" {
			return fmt.Errorf("%w: table %q needs files.required_column", ErrInvalid, t.Name)
		}
		if !mapping.HasTarget(f.RequiredColumn) {
			return fmt.Errorf("%w: required column %q has no source mapping in table %q", ErrInvalid, f.RequiredColumn, t.Name)
		}
	}
	for _, name := range f.TextColumns {
		if !mapping.HasTarget(name) {
			return fmt.Errorf("%w: text column %q has no source mapping in table %q", ErrInvalid, name, t.Name)
		}
	}
	for _, name := range f.DedupColumns {
		if _, ok := t.Column(name); !ok {
			return fmt.Errorf("%w: dedup column %q is not declared in table %q", ErrInvalid, name, t.Name)
		}
	}
	return nil
}

// Table returns the declaration for name.
func (c *Config) Table(name string) (TableSpec, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableSpec{}, false
}

// IngestTable returns the declaration the spreadsheet loads into.
func (c *Config) IngestTable() (TableSpec, error) {
	if c.Files.Table == "" {
		return TableSpec{}, fmt.Errorf("%w: files.table is not set", ErrInvalid)
	}
	t, ok := c.Table(c.Files.Table)
	if !ok {
		return TableSpec{}, fmt.Errorf("%w: files.table %q is not declared", ErrInvalid, c.Files.Table)
	}
	return t, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// DatabasePath returns the configured store path with ~ expanded.
func (c *Config) DatabasePath() string {
	if c.Database == "" {
		return filepath.Join(DataDir(), "gym.db")
	}
	return ExpandPath(c.Database)
}

// SpreadsheetPath resolves files.path relative to the config file.
func (c *Config) SpreadsheetPath() string {
	p := ExpandPath(c.Files.Path)
	if p == "" || filepath.IsAbs(p) || c.path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.path), p)
}

// SetFlag sets a persisted startup flag. Call Save to write it back.
func (c *Config) SetFlag(key string, value bool) error {
	switch key {
	case FlagTablesCreated:
		c.Flags.TablesCreated = value
	case FlagCSVLoaded:
		c.Flags.CSVLoaded = value
	default:
		return fmt.Errorf("unknown flag %q", key)
	}
	if c.doc == nil {
		return nil
	}
	root := c.doc.Content[0]
	flags := mappingValue(root, "flags")
	switch {
	case flags == nil:
		flags = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "flags"},
			flags)
	case flags.Kind != yaml.MappingNode:
		// "flags:" with no value
		*flags = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	val := mappingValue(flags, key)
	if val == nil {
		val = &yaml.Node{}
		flags.Content = append(flags.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			val)
	}
	*val = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", value)}
	return nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// Save writes the document back to the file it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the document to path, keeping comments and ordering.
func (c *Config) SaveTo(path string) error {
	if c.doc == nil {
		return fmt.Errorf("config has no source document")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}

// WriteDefault writes the bundled sample document to path unless it exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	return os.WriteFile(path, defaultDocument, 0600)
}

// Default returns the bundled sample configuration.
func Default() (*Config, error) {
	return Parse(defaultDocument)
}
