package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Logical input fields a client section may map to source columns.
const (
	FieldFirstName  = "first_name"
	FieldLastName   = "last_name"
	FieldMiddleName = "middle_name"
	FieldDOB        = "dob"
	FieldZip        = "zip"
	FieldSSN        = "ssn"
	FieldJobTitle   = "job_title"
	FieldStatus     = "status"
	FieldNameColumn = "name_column"
	FieldEntityName = "entity_name"
	FieldTaxID      = "tax_id"
	FieldAddress    = "address"
	FieldCity       = "city"
	FieldState      = "state"
	FieldVendorID   = "vendor_id"
)

// ErrClientConfig is returned for unreadable or invalid client configuration.
var ErrClientConfig = errors.New("invalid client config")

// ClientConfig maps one client's staff, board and vendor exports to the
// logical fields the screening run consumes.
type ClientConfig struct {
	ClientName string         `yaml:"client_name" json:"client_name"`
	Staff      *SectionConfig `yaml:"staff" json:"staff,omitempty"`
	Board      *SectionConfig `yaml:"board" json:"board,omitempty"`
	Vendors    *SectionConfig `yaml:"vendors" json:"vendors,omitempty"`
}

// SectionConfig is the column mapping of one input category. Every key
// except skip_rows names a logical field and maps it to a source column.
type SectionConfig struct {
	Fields   map[string]string `json:"fields"`
	SkipRows int               `json:"skip_rows"`
}

// UnmarshalYAML reads a flat mapping where skip_rows is an integer and every
// other value is a column name.
func (s *SectionConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: section must be a mapping", value.Line)
	}

	s.Fields = make(map[string]string, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: %s must be a scalar", val.Line, key.Value)
		}

		if key.Value == "skip_rows" {
			n, err := strconv.Atoi(val.Value)
			if err != nil || n < 0 {
				return fmt.Errorf("line %d: skip_rows must be a non-negative integer, got %q", val.Line, val.Value)
			}
			s.SkipRows = n
			continue
		}
		s.Fields[key.Value] = val.Value
	}
	return nil
}

// Column returns the source column mapped to a logical field, or "".
func (s *SectionConfig) Column(field string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s.Fields[field])
}

// Section returns the named section ("staff", "board" or "vendors"), or nil
// when the client does not configure it.
func (c *ClientConfig) Section(name string) *SectionConfig {
	switch name {
	case "staff":
		return c.Staff
	case "board":
		return c.Board
	case "vendors":
		return c.Vendors
	}
	return nil
}

// Validate checks the client name. Column mappings are validated against
// the actual input files when a category runs.
func (c *ClientConfig) Validate() error {
	name := strings.TrimSpace(c.ClientName)
	if name == "" {
		return fmt.Errorf("%w: client_name is required", ErrClientConfig)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: client_name %q must not contain path separators", ErrClientConfig, name)
	}
	return nil
}

// ParseClientConfig decodes and validates a client configuration document.
func ParseClientConfig(data []byte) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientConfig, err)
	}
	cfg.ClientName = strings.TrimSpace(cfg.ClientName)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClientConfig reads a client configuration file.
func LoadClientConfig(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client config %s: %w", path, err)
	}
	cfg, err := ParseClientConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadClientConfigByName reads <dir>/<name>.yaml, falling back to .yml.
func LoadClientConfigByName(dir, name string) (*ClientConfig, error) {
	if strings.ContainsAny(name, `/\`) || strings.TrimSpace(name) == "" || name == ".." {
		return nil, fmt.Errorf("%w: bad client name %q", ErrClientConfig, name)
	}

	path := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if alt := filepath.Join(dir, name+".yml"); fileExists(alt) {
			path = alt
		}
	}
	return LoadClientConfig(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
