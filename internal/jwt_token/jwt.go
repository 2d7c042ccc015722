// Package jwttoken issues and validates registration session tokens. A token
// binds its bearer to one draft so a reload can resume it.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
)

// Claims are the session token claims.
type Claims struct {
	DraftID string `json:"draft_id"`
	Flow    string `json:"flow"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 session tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
}

// IssueSessionToken signs a token for draftID that expires after expiresIn.
func (s *JWTService) IssueSessionToken(draftID id.DraftID, flow string, expiresIn time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		DraftID: draftID.String(),
		Flow:    flow,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   draftID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}
	return signed, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// DraftIDFromToken validates the token and returns the draft it is bound to.
func (s *JWTService) DraftIDFromToken(tokenString string) (id.DraftID, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return id.DraftID{}, err
	}
	draftID, err := id.ParseDraftID(claims.DraftID)
	if err != nil {
		return id.DraftID{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token claims")
	}
	return draftID, nil
}
