package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := setupServiceTestEnv(t)

	user, pair, err := env.authService.Register("Alice@Example.com", "Alice Doe", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// Password hashes are never stored in the clear.
	require.NotEqual(t, "correct horse battery", user.PasswordHash)

	// Duplicate email, case-insensitively.
	_, _, err = env.authService.Register("ALICE@example.com", "Other", "another password")
	require.ErrorIs(t, err, ErrEmailTaken)

	_, _, err = env.authService.Register("bob@example.com", "Bob", "short")
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, loginPair, err := env.authService.Login("alice@example.com", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, loginPair.AccessToken)

	// Wrong password and unknown account are indistinguishable.
	_, _, err = env.authService.Login("alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = env.authService.Login("nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, pair, err := env.authService.Register("alice@example.com", "Alice", "correct horse battery")
	require.NoError(t, err)

	fresh, err := env.authService.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, fresh.AccessToken)

	// An access token is not a refresh token.
	_, err = env.authService.Refresh(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = env.authService.Refresh("not-a-token")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}
