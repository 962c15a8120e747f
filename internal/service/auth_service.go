package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"garage/internal/auth"
	apperrors "garage/internal/errors"
	"garage/internal/model"
	"garage/internal/repository"
)

// SignupInput carries the fields of a new account.
type SignupInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
	PhotoName string
}

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput, meta RequestMeta) (*model.User, error)
	Login(ctx context.Context, email, password string, meta RequestMeta) (string, error)
	// Authenticate resolves verified claims to a live account.
	Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error)
	Logout(ctx context.Context, claims *auth.Claims, meta RequestMeta) error
}

type authService struct {
	users      repository.UserRepository
	hasher     auth.PasswordHasher
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	audit      *AuditLog
	now        func() time.Time
}

// Ensure authService can back the auth gate
var _ auth.UserResolver = (*authService)(nil)

// NewAuthService creates a new authentication service. audit may be nil.
func NewAuthService(
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	audit *AuditLog,
) AuthService {
	return &authService{
		users:      users,
		hasher:     hasher,
		jwtService: jwtService,
		tokenStore: tokenStore,
		audit:      audit,
		now:        time.Now,
	}
}

// Signup stores a new account with a hashed password.
func (s *authService) Signup(ctx context.Context, in SignupInput, meta RequestMeta) (*model.User, error) {
	if in.Password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Firstname: in.Firstname,
		Lastname:  in.Lastname,
		Email:     in.Email,
		Password:  hashed,
		Role:      model.DefaultRole,
		PhotoName: in.PhotoName,
	}

	err = s.users.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		_, err := repo.FindByEmail(ctx, in.Email)
		if err == nil {
			return apperrors.ErrEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check email: %w", err)
		}

		if err := repo.Create(ctx, user); err != nil {
			// lost the race against a concurrent signup
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			s.record(ctx, in.Email, model.AuthActionSignup, model.AuthOutcomeFailure, "duplicate_email", meta)
		}
		return nil, err
	}

	s.record(ctx, user.Email, model.AuthActionSignup, model.AuthOutcomeSuccess, "", meta)
	return user, nil
}

// Login checks credentials and issues an access token.
// Unknown email and wrong password fail the same way.
func (s *authService) Login(ctx context.Context, email, password string, meta RequestMeta) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.record(ctx, email, model.AuthActionLogin, model.AuthOutcomeFailure, "unknown_email", meta)
			return "", apperrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.Password) {
		s.record(ctx, email, model.AuthActionLogin, model.AuthOutcomeFailure, "bad_password", meta)
		return "", apperrors.ErrInvalidCredentials
	}

	token, _, err := s.jwtService.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.record(ctx, user.Email, model.AuthActionLogin, model.AuthOutcomeSuccess, "", meta)
	return token, nil
}

func (s *authService) Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}
	if s.tokenStore.IsRevoked(ctx, claims.ID) {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return user, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims, meta RequestMeta) error {
	if err := s.tokenStore.Revoke(ctx, claims.ID, auth.RemainingTTL(claims, s.now())); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.record(ctx, claims.Subject, model.AuthActionLogout, model.AuthOutcomeSuccess, "", meta)
	return nil
}

func (s *authService) record(ctx context.Context, email string, action model.AuthAction, outcome model.AuthOutcome, reason string, meta RequestMeta) {
	if reason != "" {
		log.Infof("%s %s: %s (%s)", action, email, outcome, reason)
	} else {
		log.Infof("%s %s: %s", action, email, outcome)
	}
	s.audit.Record(ctx, model.AuthEvent{
		Email:     email,
		Action:    action,
		Outcome:   outcome,
		Reason:    reason,
		RemoteIP:  meta.RemoteIP,
		RequestID: meta.RequestID,
	})
}
