package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// CanvasID is a value object identifying a mind map canvas
type CanvasID struct {
	value string
}

// NewCanvasID creates a new random CanvasID
func NewCanvasID() CanvasID {
	return CanvasID{value: uuid.New().String()}
}

// NewCanvasIDFromString creates a CanvasID from an existing string
func NewCanvasIDFromString(id string) (CanvasID, error) {
	if id == "" {
		return CanvasID{}, errors.New("canvas ID cannot be empty")
	}
	if !isValidUUID(id) {
		return CanvasID{}, errors.New("canvas ID must be a valid UUID")
	}
	return CanvasID{value: id}, nil
}

// String returns the string representation of the CanvasID
func (id CanvasID) String() string {
	return id.value
}

// Equals checks if two CanvasIDs are equal
func (id CanvasID) Equals(other CanvasID) bool {
	return id.value == other.value
}

// IsZero checks if the CanvasID is the zero value
func (id CanvasID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id CanvasID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *CanvasID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("CanvasID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
