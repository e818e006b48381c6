package valueobjects

import "errors"

// UserID is a value object identifying a user. User identifiers come
// from the external auth provider, so they are opaque strings rather
// than UUIDs minted by this service.
type UserID struct {
	value string
}

// NewUserID creates a UserID from an auth provider subject
func NewUserID(id string) (UserID, error) {
	if id == "" {
		return UserID{}, errors.New("user ID cannot be empty")
	}
	if len(id) > 128 {
		return UserID{}, errors.New("user ID too long")
	}
	return UserID{value: id}, nil
}

// String returns the string representation of the UserID
func (id UserID) String() string {
	return id.value
}

// Equals checks if two UserIDs are equal
func (id UserID) Equals(other UserID) bool {
	return id.value == other.value
}

// IsZero checks if the UserID is the zero value
func (id UserID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id UserID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *UserID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("UserID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
