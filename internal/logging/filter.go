// Package logging builds the process logger and keeps private keys out of
// every sink it writes to.
package logging

import (
	"io"
	"regexp"

	"github.com/rs/zerolog"
)

// RedactedValue replaces sensitive data.
const RedactedValue = "[REDACTED]"

var sensitivePatterns = []*regexp.Regexp{
	// A bare 64 digit hex string is how private keys are written.
	regexp.MustCompile(`\b[0-9a-fA-F]{64}\b`),
	regexp.MustCompile(`(?i)(private[_-]?key|secret)\s*[:=]\s*["']?[^\s"',}]+["']?`),
}

// SensitiveDataHook marks log events whose message contains sensitive data.
// Zerolog hooks cannot rewrite the message, so FilteringWriter does the
// actual redaction.
type SensitiveDataHook struct{}

func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in s with
// RedactedValue.
func FilterSensitiveValue(s string) string {
	for _, p := range sensitivePatterns {
		s = p.ReplaceAllString(s, RedactedValue)
	}
	return s
}

// FilteringWriter redacts sensitive data before passing writes on.
type FilteringWriter struct {
	w io.Writer
}

func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write reports len(p) on success so callers never see a short write.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	if _, err := fw.w.Write([]byte(FilterSensitiveValue(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
