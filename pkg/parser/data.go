package parser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/chezui/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Supported template data formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DataEntry is one leaf of the template data tree
type DataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseTemplateData decodes `data --format <format>` output. An empty format
// means json. The top level must be an object.
func ParseTemplateData(stdout, format string) (map[string]interface{}, error) {
	if strings.TrimSpace(stdout) == "" {
		return nil, errors.NewParseError(nil, "template data: empty output", stdout)
	}

	data := map[string]interface{}{}
	switch strings.ToLower(format) {
	case "", FormatJSON:
		if err := json.Unmarshal([]byte(stdout), &data); err != nil {
			return nil, errors.NewParseError(err, "template data", stdout)
		}
	case FormatYAML, "yml":
		if err := yaml.Unmarshal([]byte(stdout), &data); err != nil {
			return nil, errors.NewParseError(err, "template data", stdout)
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported data format %q", format)
	}
	if data == nil {
		return nil, errors.NewParseError(nil, "template data: top level is not an object", stdout)
	}
	return data, nil
}

// FlattenData lists every leaf of tree under a dotted key, sorted by key.
// Array elements are addressed as key[i].
func FlattenData(tree map[string]interface{}) []DataEntry {
	var entries []DataEntry
	flatten("", tree, &entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

func flatten(prefix string, value interface{}, out *[]DataEntry) {
	switch v := value.(type) {
	case map[string]interface{}:
		if len(v) == 0 && prefix != "" {
			*out = append(*out, DataEntry{Key: prefix, Value: "{}"})
			return
		}
		for k, child := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, out)
		}
	case []interface{}:
		if len(v) == 0 {
			*out = append(*out, DataEntry{Key: prefix, Value: "[]"})
			return
		}
		for i, child := range v {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), child, out)
		}
	case nil:
		*out = append(*out, DataEntry{Key: prefix, Value: "null"})
	default:
		*out = append(*out, DataEntry{Key: prefix, Value: fmt.Sprint(v)})
	}
}
