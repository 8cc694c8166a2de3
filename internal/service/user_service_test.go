package service

import (
	"context"
	"errors"
	"testing"

	"github.com/haierkeys/fast-note-pad/internal/dto"
	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (UserService, app.TokenManager) {
	t.Helper()
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "test-secret"})
	return NewUserService(newStore(t, false), tm, nil), tm
}

func TestUserServiceSignInIssuesToken(t *testing.T) {
	svc, tm := newUserService(t)
	ctx := context.Background()

	u, err := svc.SignIn(ctx, &dto.UserLoginRequest{Email: "alice@example.com"}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
	assert.Contains(t, u.Avatar, "seed=alice@example.com")
	require.NotEmpty(t, u.Token)

	claims, err := tm.Parse(u.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UID)
	assert.Equal(t, "127.0.0.1", claims.IP)

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID)
	assert.Empty(t, cur.Token)

	authed, err := svc.Authorize(u.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", authed.Email)
}

func TestUserServiceAuthorizeChecksSession(t *testing.T) {
	svc, tm := newUserService(t)
	ctx := context.Background()

	_, err := svc.Authorize("")
	assert.True(t, errors.Is(err, code.ErrorNotUserAuthToken))
	_, err = svc.Authorize("garbage")
	assert.True(t, errors.Is(err, code.ErrorInvalidUserAuthToken))

	alice, err := svc.SignIn(ctx, &dto.UserLoginRequest{Email: "alice@example.com"}, "")
	require.NoError(t, err)
	_, err = svc.SignIn(ctx, &dto.UserLoginRequest{Email: "bob@example.com"}, "")
	require.NoError(t, err)

	// alice 的 token 不再属于当前会话
	_, err = svc.Authorize(alice.Token)
	assert.True(t, errors.Is(err, code.ErrorInvalidUserAuthToken))

	require.NoError(t, svc.SignOut(ctx))
	bobToken, err := tm.Generate("any", "bob@example.com", "bob", "")
	require.NoError(t, err)
	_, err = svc.Authorize(bobToken)
	assert.True(t, errors.Is(err, code.ErrorNotSignedIn))

	_, err = svc.Current(ctx)
	assert.True(t, errors.Is(err, code.ErrorNotSignedIn))
}

func TestUserServiceSignInRejectsEmptyEmail(t *testing.T) {
	svc, _ := newUserService(t)
	_, err := svc.SignIn(context.Background(), &dto.UserLoginRequest{Email: " "}, "")
	assert.True(t, errors.Is(err, code.ErrorInvalidCredentials))
}
