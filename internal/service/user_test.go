package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/repository"
	"shareit-backend/internal/service"
)

func TestUserService_AddUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo)
		repo.On("GetByEmail", ctx, "ann@test.com").Return(nil, repository.ErrNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = 1 }).
			Return(nil)

		res, err := svc.AddUser(ctx, "Ann", "ann@test.com")
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ID)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo)
		repo.On("GetByEmail", ctx, "ann@test.com").Return(&domain.User{ID: 1}, nil)

		_, err := svc.AddUser(ctx, "Ann", "ann@test.com")
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("Duplicate detected by store", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo)
		repo.On("GetByEmail", ctx, "ann@test.com").Return(nil, repository.ErrNotFound)
		repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateEmail)

		_, err := svc.AddUser(ctx, "Ann", "ann@test.com")
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	t.Run("Missing fields", func(t *testing.T) {
		svc := service.NewUserService(new(MockUserRepo))
		_, err := svc.AddUser(ctx, "", "ann@test.com")
		assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Same email different case", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo)
		email := "ANN@test.com"
		repo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Ann", Email: "ann@test.com"}, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		res, err := svc.UpdateUser(ctx, 1, domain.UserPatch{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "ANN@test.com", res.Email)
		repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Email owned by another user", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo)
		email := "bob@test.com"
		repo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Ann", Email: "ann@test.com"}, nil)
		repo.On("GetByEmail", ctx, email).Return(&domain.User{ID: 2}, nil)

		_, err := svc.UpdateUser(ctx, 1, domain.UserPatch{Email: &email})
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("Name only", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo)
		name := "Annie"
		repo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Ann", Email: "ann@test.com"}, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		res, err := svc.UpdateUser(ctx, 1, domain.UserPatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Annie", res.Name)
		assert.Equal(t, "ann@test.com", res.Email)
	})

	t.Run("Unknown user", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo)
		repo.On("GetByID", ctx, int64(1)).Return(nil, repository.ErrNotFound)

		_, err := svc.UpdateUser(ctx, 1, domain.UserPatch{})
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Referenced", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo)
		repo.On("Delete", ctx, int64(1)).Return(repository.ErrReferenced)

		err := svc.DeleteUser(ctx, 1)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("Missing is a no-op", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo)
		repo.On("Delete", ctx, int64(1)).Return(repository.ErrNotFound)

		assert.NoError(t, svc.DeleteUser(ctx, 1))
	})
}
