package commands

import (
	"context"

	"slotlink/internal/domain/user"
	"slotlink/internal/infra/db"
	"slotlink/internal/pkg/errs"
	"slotlink/internal/pkg/jwt"
	"slotlink/internal/pkg/password"
	"slotlink/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidCredentials = errs.New("invalid email or password")
	ErrUserInactive       = errs.New("user account is deactivated")
	ErrInvalidToken       = errs.New("invalid token")
)

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, dbx db.Executor, userID uuid.UUID) error
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Login(ctx context.Context, credentials user.Credentials) (*TokenPair, *queries.AuthorizedUserView, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	users      queries.UserReadStore
	userRepo   UserRepository
	jwtService *jwt.Service
	pool       *pgxpool.Pool
}

func NewAuthCommands(users queries.UserReadStore, userRepo UserRepository, jwtService *jwt.Service, pool *pgxpool.Pool) AuthCommands {
	return &authCommandsImpl{
		users:      users,
		userRepo:   userRepo,
		jwtService: jwtService,
		pool:       pool,
	}
}

func (c *authCommandsImpl) Login(ctx context.Context, credentials user.Credentials) (*TokenPair, *queries.AuthorizedUserView, error) {
	view, hash, err := c.users.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		// Not-found and lookup failures both surface as invalid credentials
		// so the endpoint does not leak which emails exist.
		return nil, nil, errs.Mark(err, ErrInvalidCredentials)
	}
	if !view.IsActive {
		return nil, nil, ErrUserInactive
	}
	if err := password.ComparePassword(hash, credentials.Password().Value()); err != nil {
		return nil, nil, errs.Mark(err, ErrInvalidCredentials)
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, nil, err
	}

	pair, err := c.issuePair(view.ID, role)
	if err != nil {
		return nil, nil, err
	}

	if err := c.userRepo.UpdateLastLogin(ctx, c.pool, view.ID); err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return pair, view, nil
}

func (c *authCommandsImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := c.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidToken)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	view, err := c.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidToken)
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, err
	}
	return c.issuePair(view.ID, role)
}

func (c *authCommandsImpl) issuePair(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	access, err := c.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate access token")
	}
	refresh, err := c.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
