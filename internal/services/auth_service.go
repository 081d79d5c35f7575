package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/folio-api/internal/constants"
	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("invalid or inactive user")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles registration, login and token-backed identity.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
	hashCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hashCost: constants.BcryptCost,
	}
}

// SetHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *AuthService) SetHashCost(cost int) {
	s.hashCost = cost
}

// RegisterInput represents the information needed to create a user.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Bio       *string
	Avatar    *string
	Website   *string
}

// Register creates a user and issues a token. Username conflicts win over email conflicts.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	taken, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, "", ErrUsernameTaken
	}

	taken, err = s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Bio:          input.Bio,
		Avatar:       input.Avatar,
		Website:      input.Website,
		Role:         models.RoleUser,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials. Unknown users and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindActiveByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !canonicalizeRole(user) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate verifies a bearer token and re-checks the account, so a
// deactivated user is rejected even while the token is still unexpired.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInactiveUser
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive || !canonicalizeRole(user) {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	canonicalizeRole(user)
	return user, nil
}

// canonicalizeRole rewrites the stored role in upper case; false when it is not a known role.
func canonicalizeRole(user *models.User) bool {
	role, err := models.ParseRole(string(user.Role))
	if err != nil {
		return false
	}
	user.Role = role
	return true
}

// UpdateProfileInput carries the optional profile fields; nil means unchanged.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Avatar    *string
	Website   *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, id uint64, input UpdateProfileInput) (*models.User, error) {
	changes := map[string]interface{}{}
	if input.FirstName != nil {
		changes["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		changes["last_name"] = *input.LastName
	}
	if input.Bio != nil {
		changes["bio"] = *input.Bio
	}
	if input.Avatar != nil {
		changes["avatar"] = *input.Avatar
	}
	if input.Website != nil {
		changes["website"] = *input.Website
	}

	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, id, changes); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetUser(ctx, id)
}

// DeleteAccount removes the user together with their content.
func (s *AuthService) DeleteAccount(ctx context.Context, id uint64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
