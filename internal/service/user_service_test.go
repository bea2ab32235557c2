package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "clarity/internal/errors"
	"clarity/internal/model"
)

func TestUserService_GetUser(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(&model.User{ID: id, Email: "a@example.com", Name: "A"}, nil)
		svc := NewUserService(repo, nil)

		user, err := svc.GetUser(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, "a@example.com", user.Email)
		repo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)
		svc := NewUserService(repo, nil)

		user, err := svc.GetUser(context.Background(), id)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
