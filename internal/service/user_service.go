package service

import (
	"context"

	"cookbook/internal/model"
	"cookbook/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUserRequest is the payload for account registration.
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required,max=32"`
}

// UserResponse is the public shape of a user.
type UserResponse struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	FullName     string       `json:"full_name"`
	Disabled     bool         `json:"disabled"`
	Permissions  []Permission `json:"permissions"`
	RegisteredAt string       `json:"registered_at"`
}

// UserService covers registration and user reads.
type UserService interface {
	Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error)
	GetByID(ctx context.Context, id string) (*UserResponse, error)
	List(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func toUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Disabled:     user.Disabled,
		Permissions:  PermissionNames(user.Permissions),
		RegisteredAt: user.RegisteredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Register creates an account with no permissions. A taken username fails
// validation; a concurrent duplicate insert surfaces the same way through
// the unique index.
func (s *userService) Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errorOf(ErrValidation, "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Username: req.Username,
		Password: string(hash),
		Email:    req.Email,
		FullName: req.FullName,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, errorOf(ErrValidation, "username already taken")
	}

	return toUserResponse(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errorOf(ErrNotFound, "user not found")
	}
	return toUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}
	return responses, total, nil
}
