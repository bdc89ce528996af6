package service

import (
	"context"
	"testing"
	"time"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRevoker struct {
	tokens map[string]time.Duration
}

func (r *recordingRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if r.tokens == nil {
		r.tokens = make(map[string]time.Duration)
	}
	r.tokens[token] = ttl
	return nil
}

func setupAuthServiceTest(t *testing.T) (AuthService, *recordingRevoker, *testRepos) {
	r := setupRepos(t)
	revoker := &recordingRevoker{}
	return NewAuthService(r.users, testTokens, revoker), revoker, r
}

func TestAuthService_Register(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  error
	}{
		{name: "Valid registration", email: "test@example.com", password: "password123", userName: "Test User"},
		{name: "Duplicate email", email: "TEST@example.com", password: "password456", userName: "Another", wantErr: ErrEmailAlreadyExists},
		{name: "Short password", email: "short@example.com", password: "abc", userName: "Short", wantErr: util.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := authService.Register(ctx, tt.userName, tt.email, tt.password, "0771234567")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, user.Email)
			assert.Equal(t, model.RoleCustomer, user.Role)
			assert.NotEmpty(t, token.AccessToken)
			assert.Equal(t, "Bearer", token.TokenType)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _, r := setupAuthServiceTest(t)
	ctx := context.Background()

	_, _, err := authService.Register(ctx, "Test User", "test@example.com", "password123", "")
	require.NoError(t, err)

	hash, err := util.HashPassword("hrpass123")
	require.NoError(t, err)
	hr := &model.User{Name: "HR", Email: "hr@example.com", PasswordHash: hash, Role: model.RoleHRManager}
	require.NoError(t, r.users.Create(ctx, hr))

	tests := []struct {
		name     string
		email    string
		password string
		wantRole model.UserRole
		wantErr  error
	}{
		{name: "Customer login", email: "test@example.com", password: "password123", wantRole: model.RoleCustomer},
		{name: "Staff login", email: "HR@example.com", password: "hrpass123", wantRole: model.RoleHRManager},
		{name: "Wrong password", email: "test@example.com", password: "wrongpassword", wantErr: ErrInvalidCredentials},
		{name: "Non-existing user", email: "notfound@example.com", password: "password123", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := authService.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)

			claims, err := util.ValidateToken(token.AccessToken, testTokens.Secret)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, string(tt.wantRole), claims.Role)
			assert.WithinDuration(t, time.Now().Add(testTokens.Expiry), token.ExpiresAt, time.Minute)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	authService, revoker, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	require.NoError(t, authService.Logout(ctx, "token-a", time.Now().Add(30*time.Minute)))
	ttl, ok := revoker.tokens["token-a"]
	require.True(t, ok)
	assert.InDelta(t, (30 * time.Minute).Seconds(), ttl.Seconds(), 5)

	withoutRevoker := NewAuthService(nil, testTokens, nil)
	assert.NoError(t, withoutRevoker.Logout(ctx, "token-b", time.Now().Add(time.Minute)))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	user, _, err := authService.Register(ctx, "Test User", "test@example.com", "password123", "0770000000")
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(ctx, user.ID, "Renamed", "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "0770000000", updated.Phone)

	_, err = authService.UpdateProfile(ctx, 9999, "Ghost", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
