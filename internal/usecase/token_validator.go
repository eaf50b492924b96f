package usecase

import (
	"context"

	"slotlink/internal/pkg/errs"
	"slotlink/internal/pkg/jwt"
	"slotlink/internal/usecase/queries"
)

var (
	ErrUnauthorized = errs.New("unauthorized")
	ErrForbidden    = errs.New("forbidden")
)

// TokenValidator resolves an access token to the authorized user behind it.
// Middleware uses it so handlers never see raw JWT claims.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, tokenString string) (*queries.AuthorizedUserView, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
	users      queries.UserQueries
}

func NewTokenValidator(jwtService *jwt.Service, users queries.UserQueries) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService, users: users}
}

func (v *tokenValidatorImpl) ValidateAccessToken(ctx context.Context, tokenString string) (*queries.AuthorizedUserView, error) {
	claims, err := v.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, errs.Mark(err, ErrUnauthorized)
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return nil, ErrUnauthorized
	}

	view, err := v.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errs.Mark(err, ErrUnauthorized)
	}
	if !view.IsActive {
		return nil, ErrForbidden
	}
	return view, nil
}
