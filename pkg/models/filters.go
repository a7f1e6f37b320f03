package models

import (
	"fmt"
	"net/url"
	"sort"
)

// Filters holds user-selected query constraints (domain, reviewer, trainer
// level, ...). Values may be strings or numbers; nil and empty-string values
// are dropped during encoding.
type Filters map[string]any

// Encode serializes the filters into a query string with keys in sorted
// order, so logically identical filter sets always encode identically.
// The leading "?" is not included; an empty result means no query string.
func (f Filters) Encode() string {
	if len(f) == 0 {
		return ""
	}

	keys := make([]string, 0, len(f))
	for k, v := range f {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vals := url.Values{}
	for _, k := range keys {
		vals.Set(k, fmt.Sprint(f[k]))
	}
	return vals.Encode()
}
