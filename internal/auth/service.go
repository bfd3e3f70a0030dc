package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ardiansetya/kasirpoint-backend/internal/audit"
	"github.com/ardiansetya/kasirpoint-backend/internal/users"
	pkgAuth "github.com/ardiansetya/kasirpoint-backend/pkg/auth"
	"github.com/ardiansetya/kasirpoint-backend/pkg/config"
	"github.com/ardiansetya/kasirpoint-backend/pkg/db/models"
	"github.com/ardiansetya/kasirpoint-backend/pkg/enums"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/ardiansetya/kasirpoint-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, claims *pkgAuth.AccessTokenClaims) error
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type tokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
}

type service struct {
	users       userRepository
	revoker     tokenRevoker
	audit       audit.Service
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	TokenRevoker   tokenRevoker
	Audit          audit.Service
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.TokenRevoker == nil {
		return nil, fmt.Errorf("token revoker is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit service is required")
	}
	return &service{
		users:       params.UserRepo,
		revoker:     params.TokenRevoker,
		audit:       params.Audit,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		now:         time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login")
	}
	user.LastLoginAt = &now

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:   &user.ID,
		Action:   "login",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(s.jwtCfg.Expiration()),
		User:        users.FromModel(user),
	}, nil
}

// Logout revokes the token's jti for the remainder of its lifetime. An
// already-expired token has nothing left to revoke.
func (s *service) Logout(ctx context.Context, claims *pkgAuth.AccessTokenClaims) error {
	if claims == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing token")
	}

	if claims.ExpiresAt != nil {
		if ttl := claims.ExpiresAt.Time.Sub(s.now()); ttl > 0 {
			if err := s.revoker.RevokeToken(ctx, claims.ID, ttl); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke token")
			}
		}
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:   &claims.UserID,
		Action:   "logout",
		Entity:   "user",
		EntityID: &claims.UserID,
	})
	return nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	role, ok := enums.ParseUserRole(req.Role)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup username")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:   &user.ID,
		Action:   "register",
		Entity:   "user",
		EntityID: &user.ID,
		Detail:   string(role),
	})
	return users.FromModel(user), nil
}

func (s *service) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	input := strings.TrimSpace(username)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByUsername(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
