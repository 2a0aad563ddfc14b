package ai

import (
	"encoding/json"
	"strings"
)

// LLM responses embed JSON in free text, sometimes inside markdown code
// fences. Extraction is "find the first well-formed [...] or {...}
// substring"; a parse failure here must trigger the caller's fallback
// path, never propagate raw output.

func stripFences(resp string) string {
	cleaned := strings.TrimSpace(resp)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return cleaned
}

// DecodeArray finds the first balanced JSON array in resp and unmarshals
// it into out.
func DecodeArray(resp string, out any) error {
	cleaned := stripFences(resp)
	if s, ok := extractBalanced(cleaned, '[', ']'); ok {
		cleaned = s
	}
	return json.Unmarshal([]byte(cleaned), out)
}

// DecodeObject finds the first balanced JSON object in resp and
// unmarshals it into out.
func DecodeObject(resp string, out any) error {
	cleaned := stripFences(resp)
	if s, ok := extractBalanced(cleaned, '{', '}'); ok {
		cleaned = s
	}
	return json.Unmarshal([]byte(cleaned), out)
}

// extractBalanced finds the first outermost balanced open...close run,
// skipping brackets inside string literals.
func extractBalanced(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == open {
				depth++
			} else if char == close {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}

// aliasString reads the first non-empty string under any of the alias
// keys. LLM output is loosely typed: the same field arrives under
// different names depending on how the prompt was phrased, so every
// field has a fixed priority order of aliases.
func aliasString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// aliasStrings reads the first non-empty string list under the alias
// keys, tolerating []any with mixed content.
func aliasStrings(m map[string]any, keys ...string) []string {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch list := v.(type) {
		case []string:
			if len(list) > 0 {
				return list
			}
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}
