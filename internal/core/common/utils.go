package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSONArray cleans and unmarshals a JSON array of T out of a model
// response. It handles common LLM quirks: markdown fences, commentary
// around the payload, or a stray prefix before the array.
func ParseJSONArray[T any](response string) ([]T, error) {
	jsonStr := strings.TrimSpace(response)

	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")
	jsonStr = strings.TrimSpace(jsonStr)

	// Find first '[' and last ']'
	start := strings.Index(jsonStr, "[")
	end := strings.LastIndex(jsonStr, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array found in response")
	}
	jsonStr = jsonStr[start : end+1]

	var result []T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}
