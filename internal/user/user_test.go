package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saulo-duarte/proposals-lambda/internal/auth"
	"github.com/saulo-duarte/proposals-lambda/internal/user"
)

func newRepo(t *testing.T) user.UserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, user.Migrate(db))
	return user.NewRepository(db)
}

func TestRepositoryFindByID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	u := &user.User{Username: "alice", Role: "manager", Active: true}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.ID)

	found, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestHandlerGetUser(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	u := &user.User{Username: "bob", Role: "employee", Active: true}
	require.NoError(t, repo.Create(ctx, u))

	router := user.Routes(user.NewHandler(repo))

	tests := []struct {
		name       string
		claims     *auth.Claims
		wantStatus int
	}{
		{name: "no claims", wantStatus: http.StatusUnauthorized},
		{name: "malformed id", claims: &auth.Claims{UserID: "bob"}, wantStatus: http.StatusUnauthorized},
		{name: "unknown user", claims: &auth.Claims{UserID: uuid.NewString()}, wantStatus: http.StatusNotFound},
		{name: "known user", claims: &auth.Claims{UserID: u.ID.String()}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.claims != nil {
				req = req.WithContext(auth.WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var got user.User
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, "bob", got.Username)
			}
		})
	}
}
