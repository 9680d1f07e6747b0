package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityMiddlewareSurfacesHeaders(t *testing.T) {
	var gotUser, gotRole string
	var userOK, roleOK bool

	handler := IdentityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, userOK = UserFromContext(r.Context())
		gotRole, roleOK = RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/hospitals", nil)
	req.Header.Set("X-User-Id", "user-42")
	req.Header.Set("X-User-Role", "provider")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, userOK)
	assert.Equal(t, "user-42", gotUser)
	assert.True(t, roleOK)
	assert.Equal(t, "provider", gotRole)
}

func TestIdentityMiddlewareAnonymousRequest(t *testing.T) {
	handler := IdentityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, userOK := UserFromContext(r.Context())
		_, roleOK := RoleFromContext(r.Context())
		assert.False(t, userOK)
		assert.False(t, roleOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/hospitals", nil))
}
