// Package transform normalizes backend payloads: the stats API speaks
// snake_case JSON while every consumer in this module works with camelCase.
package transform

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// snakePattern matches keys made of lowercase words joined by underscores.
// Keys that do not match (already camelCase, mixed case, leading or trailing
// underscores) pass through untouched, which makes the rewrite idempotent.
var snakePattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)+$`)

// SnakeToCamel rewrites a snake_case key to camelCase. Non-snake keys are
// returned unchanged.
func SnakeToCamel(key string) string {
	if !snakePattern.MatchString(key) {
		return key
	}
	parts := strings.Split(key, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// CamelizeKeys recursively rewrites object keys from snake_case to camelCase.
// Arrays are mapped element-wise, scalars (including nil) pass through
// unchanged. The function is pure and never fails; input is assumed acyclic,
// as it always originates from a JSON parse.
func CamelizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[SnakeToCamel(k)] = CamelizeKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = CamelizeKeys(el)
		}
		return out
	default:
		return v
	}
}

// Decode unmarshals a raw JSON body, camelizes its keys, and decodes the
// result into T. This is the single decode pipeline shared by the real
// client, the mock service, and the proxy.
func Decode[T any](body []byte) (T, error) {
	var out T

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return out, fmt.Errorf("parse payload: %w", err)
	}

	normalized, err := json.Marshal(CamelizeKeys(raw))
	if err != nil {
		return out, fmt.Errorf("normalize payload: %w", err)
	}

	if err := json.Unmarshal(normalized, &out); err != nil {
		return out, fmt.Errorf("decode payload: %w", err)
	}
	return out, nil
}
