package legacyimport

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed mapping.yaml
var defaultMapping []byte

// Tables lists the importable tables in dependency order.
var Tables = []string{"users", "topics", "content", "images", "videos", "questions", "matching"}

// TableMapping selects one legacy table and renames its columns to the
// destination names the converters expect.
type TableMapping struct {
	Table   string            `yaml:"table"`
	Source  string            `yaml:"source"`
	OrderBy string            `yaml:"order_by"`
	Columns map[string]string `yaml:"columns"`
}

// DestColumns returns the mapped destination columns in a stable order.
func (tm TableMapping) DestColumns() []string {
	out := make([]string, 0, len(tm.Columns))
	for dest := range tm.Columns {
		out = append(out, dest)
	}
	sort.Strings(out)
	return out
}

type Mapping struct {
	Tables []TableMapping `yaml:"tables"`
}

// LoadMapping reads the mapping at path, or the built-in one when path is empty.
func LoadMapping(path string) (*Mapping, error) {
	raw := defaultMapping
	if path = strings.TrimSpace(path); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read mapping: %w", err)
		}
		raw = b
	}
	return ParseMapping(raw)
}

func ParseMapping(raw []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	seen := map[string]bool{}
	for i, tm := range m.Tables {
		if _, ok := converters[tm.Table]; !ok {
			return nil, fmt.Errorf("mapping entry %d: unknown table %q", i, tm.Table)
		}
		if seen[tm.Table] {
			return nil, fmt.Errorf("mapping entry %d: duplicate table %q", i, tm.Table)
		}
		seen[tm.Table] = true
		if strings.TrimSpace(tm.Source) == "" {
			return nil, fmt.Errorf("table %s: missing source", tm.Table)
		}
		if strings.TrimSpace(tm.Columns["id"]) == "" {
			return nil, fmt.Errorf("table %s: id column must be mapped", tm.Table)
		}
	}
	return &m, nil
}

func (m *Mapping) Table(name string) (TableMapping, bool) {
	for _, tm := range m.Tables {
		if tm.Table == name {
			return tm, true
		}
	}
	return TableMapping{}, false
}
