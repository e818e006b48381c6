package auth

import "strings"

// sessionUserPrefix marks user IDs minted for anonymous sessions so the
// rest of the system can tell them apart from authenticated subjects.
const sessionUserPrefix = "session:"

// SessionUserID derives a user ID from an anonymous session token
func SessionUserID(sessionID string) string {
	return sessionUserPrefix + sessionID
}

// IsSessionUser reports whether a user ID belongs to an anonymous session
func IsSessionUser(userID string) bool {
	return strings.HasPrefix(userID, sessionUserPrefix)
}
