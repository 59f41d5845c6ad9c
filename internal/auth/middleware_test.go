package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// fakeTokenStore is an in-memory TokenStoreInterface for middleware tests.
type fakeTokenStore struct {
	denied map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{denied: make(map[string]bool)}
}

func (f *fakeTokenStore) DenyToken(_ context.Context, tokenID string, _ time.Duration) error {
	f.denied[tokenID] = true
	return nil
}

func (f *fakeTokenStore) IsTokenDenied(_ context.Context, tokenID string) (bool, error) {
	return f.denied[tokenID], nil
}

func TestRequireRoles(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	tokenStore := newFakeTokenStore()
	mw := NewMiddleware(jwtService, tokenStore)

	adminToken, err := jwtService.GenerateToken(1, "admin@example.com", RoleAdmin)
	assert.NoError(t, err)
	userToken, err := jwtService.GenerateToken(2, "user@example.com", RoleUser)
	assert.NoError(t, err)

	revokedToken, err := jwtService.GenerateToken(3, "gone@example.com", RoleAdmin)
	assert.NoError(t, err)
	revokedClaims, err := jwtService.ValidateToken(revokedToken)
	assert.NoError(t, err)
	assert.NoError(t, tokenStore.DenyToken(context.Background(), revokedClaims.ID, time.Hour))

	tests := []struct {
		name       string
		roles      []Role
		authHeader string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "missing token",
			roles:      []Role{RoleAdmin},
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			roles:      []Role{RoleAdmin},
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			roles:      []Role{RoleAdmin},
			authHeader: "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong role",
			roles:      []Role{RoleAdmin},
			authHeader: "Bearer " + userToken,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "revoked token",
			roles:      []Role{RoleAdmin},
			authHeader: "Bearer " + revokedToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "admin allowed",
			roles:      []Role{RoleAdmin},
			authHeader: "Bearer " + adminToken,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "no role requirement accepts any valid token",
			roles:      nil,
			authHeader: "Bearer " + userToken,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			nextCalled := false
			handler := mw.RequireRoles(tt.roles...)(func(c echo.Context) error {
				nextCalled = true
				return c.NoContent(http.StatusOK)
			})

			err := handler(c)
			assert.Equal(t, tt.wantNext, nextCalled)

			if tt.wantStatus == http.StatusOK {
				assert.NoError(t, err)
				return
			}
			httpErr, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, tt.wantStatus, httpErr.Code)
		})
	}
}

func TestRequireRoles_AttachesPrincipal(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	mw := NewMiddleware(jwtService, newFakeTokenStore())

	token, err := jwtService.GenerateToken(7, "admin@example.com", RoleAdmin)
	assert.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got Principal
	handler := mw.RequireRoles(RoleAdmin)(func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		assert.True(t, ok)
		got = p
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, handler(c))
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "admin@example.com", got.Email)
	assert.Equal(t, RoleAdmin, got.Role)
}
