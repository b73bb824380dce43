package domain

import "fmt"

// ConfigError is the single error kind for every configuration validation
// and window-expression parsing failure. Line is 1-based and points at the
// offending node in the source document for direct editor navigation.
type ConfigError struct {
	Message  string
	Line     int
	Filename string
}

func (e *ConfigError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d: %s", e.Filename, e.Line, e.Message)
	}
	return fmt.Sprintf("FILE:%d: %s", e.Line, e.Message)
}
