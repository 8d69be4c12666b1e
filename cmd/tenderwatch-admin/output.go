package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// validateQuery rejects malformed JMESPath expressions before any I/O happens.
func validateQuery(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}
	return nil
}

// printJSON writes v as indented JSON. A non-empty query is applied to the
// JSON form of v, so expressions use the API field names.
func printJSON(w io.Writer, v any, query string) error {
	out := v
	if strings.TrimSpace(query) != "" {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if out, err = jmespath.Search(query, doc); err != nil {
			return fmt.Errorf("apply query: %w", err)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
