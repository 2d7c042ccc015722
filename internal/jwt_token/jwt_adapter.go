package jwttoken

import (
	"agora/internal/platform/middleware"
	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
)

// JWTServiceAdapter satisfies middleware.SessionValidator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateSession(tokenString string) (*middleware.SessionClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	draftID, err := id.ParseDraftID(claims.DraftID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token claims")
	}
	return &middleware.SessionClaims{DraftID: draftID, Flow: claims.Flow, JTI: claims.ID}, nil
}
