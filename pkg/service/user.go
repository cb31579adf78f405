package service

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserService struct {
	users  UserStore
	tokens *auth.TokenService
	logger *zap.Logger
}

func NewUserService(users UserStore, tokens *auth.TokenService, logger *zap.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, logger: logger}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// Register creates a customer account with a hashed password.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hash,
		Phone:     input.Phone,
		Role:      models.RoleCustomer,
		IsActive:  true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// Authenticate verifies credentials and issues an access token.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}

	token, _, err := s.tokens.Issue(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}

	return user, token, nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Addresses []models.Address
}

// UpdateProfile applies the provided non-empty fields to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	if update.Phone != "" {
		user.Phone = update.Phone
	}
	if update.Addresses != nil {
		user.Addresses = update.Addresses
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before writing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, id primitive.ObjectID, currentPassword, newPassword string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(currentPassword, user.Password) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash

	return s.users.Update(ctx, user)
}

type AdminUserUpdate struct {
	Role     string
	IsActive *bool
}

// AdminUpdate lets an admin change a user's role or active flag.
func (s *UserService) AdminUpdate(ctx context.Context, id primitive.ObjectID, update AdminUserUpdate) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Role != "" {
		if !models.ValidRole(update.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = update.Role
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
