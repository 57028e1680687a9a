// config.go implements loading and normalizing the sos configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/sosreport/sos/internal/model"
)

// Values is the normalized result of a parsed configuration file: every key
// maps to an ordered list of string values. Scalars become single-element
// lists; sequences keep their order. The option layer re-coerces strings to
// the declared option types during merge.
type Values map[string][]string

// Load reads and parses the configuration file at path.
//
// A missing file is not an error: the default location /etc/sos.conf is
// frequently absent, so Load returns empty values and the caller merges
// nothing. Every other failure — unreadable file, syntax error, a value
// that is neither scalar nor sequence — is a model.ConfigParseError.
func Load(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &model.ConfigParseError{Path: path, Err: err}
	}

	// JSON-family files may contain comments and trailing commas; strip
	// them so the decoder sees plain JSON. YAML parses the result either
	// way, so a single decode path handles both formats.
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".json" || ext == ".jsonc" {
		data = jsonc.ToJSON(data)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &model.ConfigParseError{Path: path, Err: err}
	}

	values := make(Values, len(raw))
	for key, v := range raw {
		normalized, err := normalize(v)
		if err != nil {
			return nil, &model.ConfigParseError{
				Path: path,
				Err:  fmt.Errorf("key %q: %w", key, err),
			}
		}
		values[key] = normalized
	}

	return values, nil
}

// normalize flattens a decoded YAML value into the string-list form the
// option layer consumes. Only scalars and sequences of scalars are valid;
// nested mappings have no key/value interpretation and are rejected.
func normalize(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return []string{""}, nil
	case string:
		return []string{val}, nil
	case bool, int, int64, uint64, float64:
		return []string{fmt.Sprintf("%v", val)}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case bool, int, int64, uint64, float64:
				out = append(out, fmt.Sprintf("%v", s))
			default:
				return nil, fmt.Errorf("sequence element %v is not a scalar", item)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value %v is not a scalar or sequence", v)
	}
}
