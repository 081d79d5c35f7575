package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/response"
	"github.com/yukikurage/folio-api/internal/services"
)

type fakeAuthenticator struct {
	users map[string]*models.User
	err   error
}

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[token]
	if !ok {
		return nil, services.ErrInvalidToken
	}
	return user, nil
}

func newAuthRouter(auth Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{RequireAuth(auth)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		identity, _ := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"username": identity.Username})
	})
	r.GET("/protected", chain...)
	return r
}

func doRequest(r http.Handler, header string) (*httptest.ResponseRecorder, response.Envelope) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope response.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope
}

func TestRequireAuth(t *testing.T) {
	auth := fakeAuthenticator{users: map[string]*models.User{
		"good": {ID: 1, Username: "alice", Role: models.RoleUser},
	}}
	r := newAuthRouter(auth)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Access token required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Access token required"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Access token required"},
		{"invalid token", "Bearer nope", http.StatusForbidden, "Invalid or expired token"},
		{"valid token", "Bearer good", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, envelope := doRequest(r, tt.header)
			require.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				assert.False(t, envelope.Success)
				assert.Equal(t, tt.message, envelope.Error)
			}
		})
	}
}

func TestRequireAuth_InactiveUser(t *testing.T) {
	r := newAuthRouter(fakeAuthenticator{err: services.ErrInactiveUser})

	w, envelope := doRequest(r, "Bearer anything")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or inactive user", envelope.Error)
}

func TestRequireAuth_UnexpectedErrorReachesBackstop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zerologNop(), true))
	r.GET("/protected", RequireAuth(fakeAuthenticator{err: errors.New("db down")}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w, envelope := doRequest(r, "Bearer anything")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", envelope.Error)
}

func TestRequireRole(t *testing.T) {
	auth := fakeAuthenticator{users: map[string]*models.User{
		"user":  {ID: 1, Username: "alice", Role: models.RoleUser},
		"admin": {ID: 2, Username: "root", Role: models.RoleAdmin},
		"lower": {ID: 3, Username: "bob", Role: models.Role(" author ")},
		"bogus": {ID: 4, Username: "eve", Role: models.Role("superuser")},
	}}
	r := newAuthRouter(auth, RequireRole(models.RoleAdmin, models.RoleAuthor))

	w, envelope := doRequest(r, "Bearer user")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Insufficient permissions", envelope.Error)

	w, _ = doRequest(r, "Bearer admin")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(r, "Bearer lower")
	assert.Equal(t, http.StatusOK, w.Code)

	w, envelope = doRequest(r, "Bearer bogus")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Insufficient permissions", envelope.Error)
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w, envelope := doRequest(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", envelope.Error)
}

func TestOptionalAuth_NeverRejects(t *testing.T) {
	auth := fakeAuthenticator{users: map[string]*models.User{
		"good": {ID: 9, Username: "alice", Role: models.RoleUser},
	}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", OptionalAuth(auth), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "userId": userID})
	})

	for header, want := range map[string]bool{
		"":            false,
		"Bearer bad":  false,
		"Bearer good": true,
	} {
		w, _ := doRequest(r, header)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Authenticated bool   `json:"authenticated"`
			UserID        uint64 `json:"userId"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, want, body.Authenticated, header)
		if want {
			assert.Equal(t, uint64(9), body.UserID)
		}
	}
}
