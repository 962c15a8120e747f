package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"garage/internal/auth"
	apperrors "garage/internal/errors"
	"garage/internal/model"
)

type recordingPhotos struct {
	removed []string
}

func (p *recordingPhotos) Remove(name string) error {
	p.removed = append(p.removed, name)
	return nil
}

func TestUserService_DeleteSelf(t *testing.T) {
	user := &model.User{ID: 7, Email: "a@b.com", PhotoName: "p.png"}
	_, claims, err := auth.NewJWTService("test-secret", time.Hour).Issue(user.Email)
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("Delete", mock.Anything, uint(7)).Return(nil)
	mockTokens := new(MockTokenStore)
	mockTokens.On("Revoke", mock.Anything, claims.ID, mock.AnythingOfType("time.Duration")).Return(nil)
	photos := &recordingPhotos{}

	service := NewUserService(mockRepo, mockTokens, photos, nil)
	require.NoError(t, service.DeleteSelf(context.Background(), user, claims, RequestMeta{}))

	mockRepo.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
	assert.Equal(t, []string{"p.png"}, photos.removed)
}

func TestUserService_DeleteSelfVanishedRow(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("Delete", mock.Anything, uint(7)).Return(gorm.ErrRecordNotFound)
	mockTokens := new(MockTokenStore)

	service := NewUserService(mockRepo, mockTokens, nil, nil)
	err := service.DeleteSelf(context.Background(), &model.User{ID: 7}, &auth.Claims{}, RequestMeta{})

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	mockTokens.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}
