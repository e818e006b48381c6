package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// ThoughtID is a value object representing a unique thought identifier
type ThoughtID struct {
	value string
}

// NewThoughtID creates a new random ThoughtID
func NewThoughtID() ThoughtID {
	return ThoughtID{value: uuid.New().String()}
}

// NewThoughtIDFromString creates a ThoughtID from an existing string
func NewThoughtIDFromString(id string) (ThoughtID, error) {
	if id == "" {
		return ThoughtID{}, errors.New("thought ID cannot be empty")
	}
	if !isValidUUID(id) {
		return ThoughtID{}, errors.New("thought ID must be a valid UUID")
	}
	return ThoughtID{value: id}, nil
}

// String returns the string representation of the ThoughtID
func (id ThoughtID) String() string {
	return id.value
}

// Equals checks if two ThoughtIDs are equal
func (id ThoughtID) Equals(other ThoughtID) bool {
	return id.value == other.value
}

// IsZero checks if the ThoughtID is the zero value
func (id ThoughtID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ThoughtID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ThoughtID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("ThoughtID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
