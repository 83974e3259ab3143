package planner

import (
	"fmt"
	"strings"
	"time"
)

// notBlank rejects titles made only of whitespace
func notBlank(value interface{}) error {
	title, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

// parseDeadline accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date
func parseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline must be RFC 3339 or YYYY-MM-DD")
	}
	return t, nil
}
