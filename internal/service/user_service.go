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

// PhotoRemover deletes stored profile photos.
type PhotoRemover interface {
	Remove(name string) error
}

// UserService exposes account operations for the signed-in user.
type UserService interface {
	// DeleteSelf removes user and revokes the token it authenticated with.
	DeleteSelf(ctx context.Context, user *model.User, claims *auth.Claims, meta RequestMeta) error
}

type userService struct {
	repo       repository.UserRepository
	tokenStore auth.TokenStoreInterface
	photos     PhotoRemover
	audit      *AuditLog
	now        func() time.Time
}

// NewUserService builds a UserService. photos and audit may be nil.
func NewUserService(repo repository.UserRepository, tokenStore auth.TokenStoreInterface, photos PhotoRemover, audit *AuditLog) UserService {
	return &userService{
		repo:       repo,
		tokenStore: tokenStore,
		photos:     photos,
		audit:      audit,
		now:        time.Now,
	}
}

func (s *userService) DeleteSelf(ctx context.Context, user *model.User, claims *auth.Claims, meta RequestMeta) error {
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if claims != nil {
		if err := s.tokenStore.Revoke(ctx, claims.ID, auth.RemainingTTL(claims, s.now())); err != nil {
			log.Warnf("delete %s: revoke token: %v", user.Email, err)
		}
	}
	if s.photos != nil {
		if err := s.photos.Remove(user.PhotoName); err != nil {
			log.Warnf("delete %s: remove photo: %v", user.Email, err)
		}
	}

	log.Infof("%s %s: %s", model.AuthActionDelete, user.Email, model.AuthOutcomeSuccess)
	s.audit.Record(ctx, model.AuthEvent{
		Email:     user.Email,
		Action:    model.AuthActionDelete,
		Outcome:   model.AuthOutcomeSuccess,
		RemoteIP:  meta.RemoteIP,
		RequestID: meta.RequestID,
	})
	return nil
}
