package consult

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/growthdesk/consultor-cli/internal/profile"
)

// completion is the structured output the model is asked to produce.
type completion struct {
	Reply          string         `json:"reply"`
	UpdatedProfile map[string]any `json:"updated_profile"`
}

var (
	replyRe   = regexp.MustCompile(`"reply"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	profileRe = regexp.MustCompile(`"updated_profile"\s*:\s*(\{[^{}]*\})`)
)

// parseCompletion extracts the reply text and the raw field-update proposal
// from a model completion. Malformed JSON degrades to a best-effort regex
// extraction of at least the reply; a total failure returns empty values and
// the caller falls back to a direct field prompt.
func parseCompletion(raw string) (string, map[profile.Field]any) {
	raw = stripFences(raw)

	var c completion
	if err := json.Unmarshal([]byte(jsonBody(raw)), &c); err == nil {
		return strings.TrimSpace(c.Reply), toFieldMap(c.UpdatedProfile)
	}

	zap.L().Debug("completion was not valid JSON, trying regex extraction")

	var reply string
	if m := replyRe.FindStringSubmatch(raw); m != nil {
		if unq, err := strconv.Unquote(`"` + m[1] + `"`); err == nil {
			reply = unq
		} else {
			reply = m[1]
		}
	}
	var update map[string]any
	if m := profileRe.FindStringSubmatch(raw); m != nil {
		_ = json.Unmarshal([]byte(m[1]), &update)
	}
	return strings.TrimSpace(reply), toFieldMap(update)
}

// stripFences removes markdown code fences the model sometimes wraps JSON in.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// jsonBody narrows raw text to its outermost braces.
func jsonBody(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func toFieldMap(in map[string]any) map[profile.Field]any {
	if in == nil {
		return nil
	}
	out := make(map[profile.Field]any, len(in))
	for k, v := range in {
		out[profile.Field(k)] = v
	}
	return out
}

// flattenValue renders a raw proposal value as a display string. Lists are
// joined, nulls and empty strings dropped.
func flattenValue(raw any) (string, bool) {
	switch val := raw.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(val)
		if s == "" || strings.EqualFold(s, "null") {
			return "", false
		}
		return s, true
	case []any:
		var parts []string
		for _, item := range val {
			if s, ok := flattenValue(item); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ", "), true
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10), true
		}
		return fmt.Sprintf("%g", val), true
	default:
		return "", false
	}
}
