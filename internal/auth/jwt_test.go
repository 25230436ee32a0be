package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := NewTokenManager("test-secret")

	pair, err := tm.IssuePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	userID, err := tm.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.EqualValues(t, 42, userID)

	userID, err = tm.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.EqualValues(t, 42, userID)
}

func TestTokenManager_TokenTypesAreNotInterchangeable(t *testing.T) {
	tm := NewTokenManager("test-secret")

	pair, err := tm.IssuePair(42)
	require.NoError(t, err)

	_, err = tm.VerifyAccess(pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.VerifyRefresh(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	tm := NewTokenManager("test-secret")
	other := NewTokenManager("other-secret")

	pair, err := other.IssuePair(42)
	require.NoError(t, err)

	_, err = tm.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret")

	_, err := tm.VerifyAccess("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
