package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/proposals-lambda/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	auth.Init(testSecret)

	token, err := auth.GenerateJWT(testUserID, testRole, time.Minute)
	require.NoError(t, err)

	var seen *auth.Claims
	protected := auth.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.GetUserClaimsFromContext(r.Context())
		require.NoError(t, err)
		seen = claims
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
	}{
		{name: "no credentials", setup: func(r *http.Request) {}, wantStatus: http.StatusUnauthorized},
		{name: "bearer header", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		}, wantStatus: http.StatusNoContent},
		{name: "cookie", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "jwt", Value: token})
		}, wantStatus: http.StatusNoContent},
		{name: "malformed header", setup: func(r *http.Request) {
			r.Header.Set("Authorization", token)
		}, wantStatus: http.StatusUnauthorized},
		{name: "bad token", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not-a-jwt")
		}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/proposals", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				require.NotNil(t, seen)
				assert.Equal(t, testUserID, seen.UserID)
			} else {
				assert.Nil(t, seen)
				assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.NewHandler("example.com").Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
