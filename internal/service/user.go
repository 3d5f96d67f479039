package service

import (
	"context"
	"errors"
	"strings"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) AddUser(ctx context.Context, name, email string) (*domain.User, error) {
	logger.EnterMethod("userService.AddUser", "email", email)

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		err := domain.NewInvalidArgument("user name and email are required")
		logger.ExitMethodWithError("userService.AddUser", err)
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		logger.ExitMethodWithError("userService.AddUser", err, "email", email)
		return nil, err
	}

	user := &domain.User{Name: name, Email: email}
	if err := s.userRepo.Create(ctx, user); err != nil {
		err = duplicateEmail(err)
		logger.ExitMethodWithError("userService.AddUser", err, "email", email)
		return nil, err
	}

	logger.ExitMethod("userService.AddUser", "userID", user.ID)
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID int64, patch domain.UserPatch) (*domain.User, error) {
	logger.EnterMethod("userService.UpdateUser", "userID", userID)

	user, err := requireUser(ctx, s.userRepo, userID)
	if err != nil {
		logger.ExitMethodWithError("userService.UpdateUser", err, "userID", userID)
		return nil, err
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		user.Name = *patch.Name
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) != "" {
		if !strings.EqualFold(*patch.Email, user.Email) {
			if err := s.ensureEmailFree(ctx, *patch.Email, userID); err != nil {
				logger.ExitMethodWithError("userService.UpdateUser", err, "userID", userID)
				return nil, err
			}
		}
		user.Email = *patch.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		err = duplicateEmail(notFound(err, "user not found"))
		logger.ExitMethodWithError("userService.UpdateUser", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("userService.UpdateUser", "userID", userID)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return requireUser(ctx, s.userRepo, userID)
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// DeleteUser removes a user. Deleting an unknown id is not an error.
func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	logger.EnterMethod("userService.DeleteUser", "userID", userID)

	err := s.userRepo.Delete(ctx, userID)
	switch {
	case err == nil, errors.Is(err, repository.ErrNotFound):
		logger.ExitMethod("userService.DeleteUser", "userID", userID)
		return nil
	case errors.Is(err, repository.ErrReferenced):
		err = domain.Wrap(domain.KindConflict, "user still has items, bookings, requests or comments", err)
	}
	logger.ExitMethodWithError("userService.DeleteUser", err, "userID", userID)
	return err
}

// ensureEmailFree fails with Conflict when email belongs to a user other than selfID.
func (s *userService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return domain.NewConflict("email already registered")
	}
	return nil
}

func duplicateEmail(err error) error {
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return domain.Wrap(domain.KindConflict, "email already registered", err)
	}
	return err
}
