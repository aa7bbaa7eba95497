package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestValidateExactlyOneOwner(t *testing.T) {
	assert.NoError(t, Identity{UserID: "user-1"}.Validate())
	assert.NoError(t, Identity{SessionID: "sess-1"}.Validate())
	assert.ErrorIs(t, Identity{}.Validate(), ErrNoOwner)
	assert.ErrorIs(t, Identity{UserID: "user-1", SessionID: "sess-1"}.Validate(), ErrAmbiguousOwner)
}

func TestMatches(t *testing.T) {
	user := Identity{UserID: "user-1"}
	session := Identity{SessionID: "sess-1"}

	// User-owned records match on user id only
	assert.True(t, user.Matches("user-1", ""))
	assert.False(t, user.Matches("user-2", ""))
	assert.False(t, session.Matches("user-1", ""))

	// Session-owned records match on session id only
	assert.True(t, session.Matches("", "sess-1"))
	assert.False(t, session.Matches("", "sess-2"))
	assert.False(t, user.Matches("", "sess-1"))

	// A record with neither owner matches nobody
	assert.False(t, user.Matches("", ""))
}

func TestOwner(t *testing.T) {
	assert.Equal(t, "user-1", Identity{UserID: "user-1"}.Owner())
	assert.Equal(t, "sess-1", Identity{SessionID: "sess-1"}.Owner())
}

func TestFromContextPrefersAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set(SessionHeader, "sess-1")
	c.Set("user_id", "user-1")

	id := FromContext(c)
	assert.Equal(t, "user-1", id.UserID)
	assert.Empty(t, id.SessionID)
	assert.True(t, id.IsAuthenticated())
}

func TestFromContextFallsBackToSessionHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set(SessionHeader, "sess-1")

	id := FromContext(c)
	assert.Empty(t, id.UserID)
	assert.Equal(t, "sess-1", id.SessionID)
	assert.False(t, id.IsAuthenticated())
}
