package identity

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Role values carried in JWT claims
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
	RoleAdmin    = "ADMIN"
)

// SessionHeader carries the anonymous browsing session identifier
const SessionHeader = "X-Session-Id"

var (
	ErrNoOwner        = errors.New("either a user or a session must identify the caller")
	ErrAmbiguousOwner = errors.New("a user and a session cannot both identify the caller")
)

// Identity describes who is acting: an authenticated user or an
// anonymous session, never both.
type Identity struct {
	UserID    string
	SessionID string
}

// FromContext builds the caller identity from the gin context.
// JWTAuth/OptionalAuth populate user_id; anonymous callers send the
// session header instead.
func FromContext(c *gin.Context) Identity {
	id := Identity{}
	if userID, exists := c.Get("user_id"); exists {
		if s, ok := userID.(string); ok {
			id.UserID = s
		}
	}
	if id.UserID == "" {
		id.SessionID = c.GetHeader(SessionHeader)
	}
	return id
}

// Validate enforces the exactly-one-owner rule.
func (i Identity) Validate() error {
	switch {
	case i.UserID == "" && i.SessionID == "":
		return ErrNoOwner
	case i.UserID != "" && i.SessionID != "":
		return ErrAmbiguousOwner
	default:
		return nil
	}
}

// IsAuthenticated reports whether the caller carries a user account.
func (i Identity) IsAuthenticated() bool {
	return i.UserID != ""
}

// Owner returns the single identifier for ownership checks.
func (i Identity) Owner() string {
	if i.UserID != "" {
		return i.UserID
	}
	return i.SessionID
}

// Matches reports whether this identity owns a hold recorded with the
// given user/session pair.
func (i Identity) Matches(userID, sessionID string) bool {
	if userID != "" {
		return i.UserID == userID
	}
	return sessionID != "" && i.SessionID == sessionID
}
