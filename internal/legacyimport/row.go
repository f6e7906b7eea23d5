package legacyimport

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is one legacy record keyed by destination column name.
type Row map[string]any

// String renders the value as trimmed text; NULL becomes "".
func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// OptString is nil for NULL or blank values.
func (r Row) OptString(key string) *string {
	s := r.String(key)
	if s == "" {
		return nil
	}
	return &s
}

// Bool accepts native booleans and the legacy text flags.
func (r Row) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int32:
		return v != 0
	}
	switch strings.ToLower(r.String(key)) {
	case "1", "t", "true", "y", "yes", "on", "show":
		return true
	}
	return false
}

// Time parses timestamps stored as native values or text. ok is false when
// the column is empty or unparseable.
func (r Row) Time(key string) (time.Time, bool) {
	if t, ok := r[key].(time.Time); ok {
		return t.UTC(), true
	}
	s := r.String(key)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// List reads array columns, JSON array text, or comma separated text.
func (r Row) List(key string) []string {
	switch v := r[key].(type) {
	case nil:
		return nil
	case []string:
		return compact(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return compact(out)
	}
	s := r.String(key)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return compact(out)
		}
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	return compact(strings.Split(s, ","))
}

// Slots collects prefix1..prefixN in order, keeping blanks so positions line up.
func (r Row) Slots(prefix string, n int) []string {
	out := make([]string, n)
	last := -1
	for i := 0; i < n; i++ {
		out[i] = r.String(prefix + strconv.Itoa(i+1))
		if out[i] != "" {
			last = i
		}
	}
	return out[:last+1]
}

// JSON returns the raw JSON document, or nil when the column is empty or not JSON.
func (r Row) JSON(key string) []byte {
	var raw []byte
	switch v := r[key].(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		raw = b
	}
	if len(strings.TrimSpace(string(raw))) == 0 || !json.Valid(raw) {
		return nil
	}
	return raw
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.Trim(strings.TrimSpace(s), `"`); s != "" {
			out = append(out, s)
		}
	}
	return out
}
