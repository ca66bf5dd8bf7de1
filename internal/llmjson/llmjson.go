// Package llmjson recovers a field mapping from free-text model output.
// Models sometimes wrap the requested JSON object in a markdown code fence;
// the parser tolerates either form and nothing else.
package llmjson

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mineworks/paperminer/internal/fault"
)

var fencedJSON = regexp.MustCompile("```json\\s*\\n([\\s\\S]*?)\\n\\s*```")

// Parse decodes model output into a field→value mapping. Stage one is a
// strict decode of the whole output; stage two extracts a ```json fenced
// block and decodes its interior. Both failing is an upstream fault.
// Missing expected keys are not an error here; the pipeline defaults them.
func Parse(raw string) (map[string]string, error) {
	if fields, err := decode(strings.TrimSpace(raw)); err == nil {
		return fields, nil
	}

	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		fields, err := decode(m[1])
		if err != nil {
			return nil, fault.Wrap(fault.Upstream, err, "llmjson: decode fenced block")
		}
		return fields, nil
	}

	return nil, fault.New(fault.Upstream, "llmjson: malformed model output")
}

func decode(s string) (map[string]string, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		fields[k] = Stringify(v)
	}
	return fields, nil
}

// Stringify flattens a decoded JSON value to text: lists join with blank
// lines, null becomes empty, everything else formats naturally.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, "\n\n")
	default:
		return fmt.Sprintf("%v", val)
	}
}
