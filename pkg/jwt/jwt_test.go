package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "chat-platform-test"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateAccessToken(userID, "alice@example.com", "alice", testSecret, testIssuer, time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "alice@example.com", "alice", testSecret, testIssuer, time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "alice@example.com", "alice", testSecret, testIssuer, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateRefreshToken(userID, testSecret, testIssuer, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokenUniquePerMint(t *testing.T) {
	userID := uuid.New()

	// Two mints in the same second must still produce distinct tokens,
	// otherwise revoking one session revokes both
	first, err := GenerateRefreshToken(userID, testSecret, testIssuer, time.Hour)
	require.NoError(t, err)
	second, err := GenerateRefreshToken(userID, testSecret, testIssuer, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	// Different secrets keep the two token families apart
	token, err := GenerateRefreshToken(uuid.New(), "refresh-secret", testIssuer, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
