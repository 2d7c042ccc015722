package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
)

var (
	jwtService = NewJWTService("test-signing-key", "test-issuer", "test-audience")
	draftID    = id.NewDraftID()
	expiresIn  = time.Hour
)

func Test_IssueSessionToken(t *testing.T) {
	token, err := jwtService.IssueSessionToken(draftID, "student", expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, draftID.String(), claims.DraftID)
	assert.Equal(t, "student", claims.Flow)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.EqualError(t, err, "invalid token")
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.IssueSessionToken(draftID, "student", -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.EqualError(t, err, "token has expired")
}

func Test_ValidateToken_WrongKeyOrAudience(t *testing.T) {
	other := NewJWTService("another-key", "test-issuer", "test-audience")
	token, err := other.IssueSessionToken(draftID, "student", expiresIn)
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	elsewhere := NewJWTService("test-signing-key", "test-issuer", "admin")
	token, err = elsewhere.IssueSessionToken(draftID, "student", expiresIn)
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		DraftID: draftID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Audience:  []string{"test-audience"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(signed)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_DraftIDFromToken(t *testing.T) {
	token, err := jwtService.IssueSessionToken(draftID, "provider", expiresIn)
	require.NoError(t, err)

	got, err := jwtService.DraftIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, draftID, got)
}

func Test_Adapter(t *testing.T) {
	token, err := jwtService.IssueSessionToken(draftID, "provider", expiresIn)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(jwtService).ValidateSession(token)
	require.NoError(t, err)
	assert.Equal(t, draftID, claims.DraftID)
	assert.Equal(t, "provider", claims.Flow)
}
