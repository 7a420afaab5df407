package summary

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON object embedded in an LLM
// response, tolerating surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}
	if end < start {
		return zero, fmt.Errorf("no JSON object found in response (missing '}')")
	}

	var result T
	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}

type summaryResult struct {
	Summary string `json:"summary"`
}

// extractSummary accepts {"summary": "..."} (fenced or not) or plain text.
func extractSummary(response string) (string, error) {
	if result, err := ParseJSON[summaryResult](response); err == nil {
		if s := strings.TrimSpace(result.Summary); s != "" {
			return s, nil
		}
	}

	s := strings.TrimSpace(stripFences(response))
	if s == "" {
		return "", fmt.Errorf("empty summary")
	}
	return s, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the language tag line, if any.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}
