package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"animediary/internal/api/apperror"
	"animediary/internal/api/models"
	"animediary/internal/api/repository"
	"animediary/internal/middleware/auth"
)

type UserService interface {
	Create(ctx context.Context, username, email, password string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, email, password *string) (*models.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Create validates the registration input, checks the unique fields and
// persists the user with a bcrypt password hash. A duplicate slipping past
// the pre-checks in a race still fails on the unique index and comes back
// as a conflict.
func (s *userService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	if len(username) < 3 {
		return nil, apperror.Validation("username must be at least 3 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, apperror.Validation("invalid email")
	}
	if len(password) < 8 {
		return nil, apperror.Validation("password must be at least 8 characters")
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal(err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal(err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.FromStore(err, "user not found", "username or email already exists")
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.FromStore(err, "user not found", "")
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

// Update applies a partial update over email and password.
func (s *userService) Update(ctx context.Context, id string, email, password *string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.FromStore(err, "user not found", "")
	}

	if email != nil {
		taken, err := s.userRepo.EmailTakenByOther(ctx, *email, id)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if taken {
			return nil, apperror.Conflict("email already exists")
		}
		user.Email = *email
	}

	if password != nil {
		if len(*password) < 8 {
			return nil, apperror.Validation("password must be at least 8 characters")
		}
		hashed, err := auth.HashPassword(*password)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.FromStore(err, "user not found", "email already exists")
	}
	return user, nil
}

// Delete removes the user and, through the cascade constraint, their diary
// entries. Returns false when no such user exists.
func (s *userService) Delete(ctx context.Context, id string) (bool, error) {
	rows, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return false, apperror.Internal(err)
	}
	return rows > 0, nil
}

// Authenticate returns the user when the stored hash verifies against the
// supplied password, and (nil, nil) on any mismatch. A failed login is not
// an error.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Dummy compare keeps the timing close to the found case.
			auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
			return nil, nil
		}
		return nil, apperror.Internal(err)
	}
	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, nil
	}
	return user, nil
}
