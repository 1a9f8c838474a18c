package services

import (
	"context"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/repository"
)

// UserService manages patron accounts. Authentication lives outside this
// module.
type UserService struct {
	users *repository.Repository[model.User]
}

// NewUserService wires the user repository.
func NewUserService(users *repository.Repository[model.User]) *UserService {
	return &UserService{users: users}
}

// Create persists a new user. Usernames must be unique.
func (s *UserService) Create(ctx context.Context, user model.User) (model.User, error) {
	var zero model.User

	if user.Username == "" {
		return zero, errors.NewValidation("username is required")
	}

	existing, err := s.users.FindByField(ctx, "username", user.Username)
	if err != nil {
		return zero, err
	}
	if len(existing) > 0 {
		return zero, errors.NewBadRequest("username is already taken")
	}

	return s.users.Save(ctx, user)
}

// Get fetches one user by id.
func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	user, found, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !found {
		return model.User{}, errors.ErrNotFound
	}
	return user, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.FindAll(ctx)
}

// Delete removes a user; deleting an absent user reports false.
func (s *UserService) Delete(ctx context.Context, id string) bool {
	return s.users.DeleteByID(ctx, id)
}
