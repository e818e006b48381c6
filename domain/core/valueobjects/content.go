package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"deepthinker-backend/domain/config"
	pkgerrors "deepthinker-backend/pkg/errors"
)

// ThoughtContent is a value object for the text of a thought card
type ThoughtContent struct {
	text string
}

// NewThoughtContent creates content with validation using default configuration
func NewThoughtContent(text string) (ThoughtContent, error) {
	return NewThoughtContentWithConfig(text, config.DefaultConfig())
}

// NewThoughtContentWithConfig creates content with validation and configuration
func NewThoughtContentWithConfig(text string, cfg config.DomainConfig) (ThoughtContent, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return ThoughtContent{}, pkgerrors.NewValidationError("thought content cannot be empty")
	}

	if utf8.RuneCountInString(text) > cfg.Content.MaxContentLength {
		return ThoughtContent{}, fmt.Errorf("thought content exceeds maximum length of %d characters", cfg.Content.MaxContentLength)
	}

	return ThoughtContent{text: text}, nil
}

// Text returns the content text
func (c ThoughtContent) Text() string {
	return c.text
}

// IsEmpty checks if content is empty
func (c ThoughtContent) IsEmpty() bool {
	return c.text == ""
}

// Equals checks if two contents are equal
func (c ThoughtContent) Equals(other ThoughtContent) bool {
	return c.text == other.text
}

// WordCount returns the approximate word count
func (c ThoughtContent) WordCount() int {
	return len(strings.Fields(c.text))
}

// Summary returns a truncated summary of the content
func (c ThoughtContent) Summary(maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	if utf8.RuneCountInString(c.text) <= maxLength {
		return c.text
	}

	runes := []rune(c.text)
	return string(runes[:maxLength-3]) + "..."
}
