package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeModelJSON strips the code-fence wrapping models tend to put around
// JSON output and unmarshals the remainder into v. Keys absent from the
// payload simply leave their fields at zero values; anything that is not
// valid JSON is an error for the caller to handle.
func DecodeModelJSON(text string, v any) error {
	cleaned := stripCodeFences(text)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
