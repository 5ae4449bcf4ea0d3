// File: internal/llmutil/parser.go
// Package llmutil cleans up model output before parsing. Models wrap JSON in
// markdown code fences and selectors in backticks often enough that every
// consumer needs the same scrubbing.
package llmutil

import "strings"

// StripCodeFence removes a surrounding markdown code fence, with or without
// a language tag, and trims whitespace. Input without a fence is returned
// trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop the language tag line (```json, ```html, ...).
		first := strings.TrimSpace(s[:idx])
		if first == "" || isLanguageTag(first) {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// ExtractObject returns the substring from the first '{' to the last '}'
// inclusive, or empty string when no balanced pair exists. Fences are
// stripped first.
func ExtractObject(s string) string {
	s = StripCodeFence(s)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

// ExtractArray returns the substring from the first '[' to the last ']'
// inclusive, or empty string when no balanced pair exists.
func ExtractArray(s string) string {
	s = StripCodeFence(s)
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

// CleanSelector strips code fences, inline backticks, and surrounding
// whitespace from a CSS selector the model produced.
func CleanSelector(s string) string {
	s = StripCodeFence(s)
	s = strings.ReplaceAll(s, "`", "")
	return strings.TrimSpace(s)
}
