package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitflow/habitflow-server/internal/auth"
	"github.com/habitflow/habitflow-server/internal/domain"
	domainerrors "github.com/habitflow/habitflow-server/internal/errors"
)

const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newAuthEnv(t *testing.T) (*AuthService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(env.store, tokenService, nil)
	return NewAuthService(env.store, tokenService, sessions, nil), env
}

func testDevice() auth.DeviceInfo {
	return auth.DeviceInfo{
		DeviceType: "mobile",
		Platform:   "iOS",
		ClientName: "HabitFlow Mobile",
	}
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	svc, _ := newAuthEnv(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:       "alice@example.com",
		Password:    "correct horse",
		DisplayName: "Alice",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleAdmin, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	// Second account is a plain member.
	resp, err = svc.Register(ctx, RegisterRequest{
		Email:       "bob@example.com",
		Password:    "another pass",
		DisplayName: "Bob",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, resp.User.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "nope", Password: "longenough", DisplayName: "X", DeviceInfo: testDevice()}},
		{"short password", RegisterRequest{Email: "a@example.com", Password: "short", DisplayName: "X", DeviceInfo: testDevice()}},
		{"missing display name", RegisterRequest{Email: "a@example.com", Password: "longenough", DeviceInfo: testDevice()}},
		{"missing device info", RegisterRequest{Email: "a@example.com", Password: "longenough", DisplayName: "X"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			var derr *domainerrors.Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, domainerrors.CodeValidation, derr.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthEnv(t)
	ctx := context.Background()

	req := RegisterRequest{
		Email:       "alice@example.com",
		Password:    "correct horse",
		DisplayName: "Alice",
		DeviceInfo:  testDevice(),
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	req.Email = strings.ToUpper(req.Email)
	_, err = svc.Register(ctx, req)
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeAlreadyExists, derr.Code)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email:       "alice@example.com",
		Password:    "correct horse",
		DisplayName: "Alice",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{
		Email:      "Alice@Example.com",
		Password:   "correct horse",
		DeviceInfo: testDevice(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Alice", resp.User.DisplayName)

	// Wrong password and unknown email produce the same error.
	var derr *domainerrors.Error
	_, err = svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong", DeviceInfo: testDevice()})
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, derr.Code)

	_, err = svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "whatever", DeviceInfo: testDevice()})
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, derr.Code)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _ := newAuthEnv(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Email:       "alice@example.com",
		Password:    "correct horse",
		DisplayName: "Alice",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, reg.SessionID, refreshed.SessionID)

	// The old refresh token died with the rotation.
	var derr *domainerrors.Error
	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeTokenExpired, derr.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newAuthEnv(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Email:       "alice@example.com",
		Password:    "correct horse",
		DisplayName: "Alice",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.SessionID))

	var derr *domainerrors.Error
	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeTokenExpired, derr.Code)
}

func TestVerifyAccessToken(t *testing.T) {
	svc, _ := newAuthEnv(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Email:       "alice@example.com",
		Password:    "correct horse",
		DisplayName: "Alice",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)

	user, claims, err := svc.VerifyAccessToken(ctx, reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, _, err = svc.VerifyAccessToken(ctx, "v4.local.garbage")
	require.Error(t, err)
}
