package user

import (
	"fmt"
	"strings"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 12
	minPasswordLength = 6
)

// UserService defines account registration, sign-in and identity resolution
type UserService struct {
	store  repository.UserStore
	tokens *auth.TokenManager
}

// NewUserService creates a new UserService instance
func NewUserService(store repository.UserStore, tokens *auth.TokenManager) *UserService {
	return &UserService{
		store:  store,
		tokens: tokens,
	}
}

// Register creates an account and returns it with a signed token
func (s *UserService) Register(username, password string) (models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, "", fmt.Errorf("service: %w - missing username", auctionerrors.ErrInvalidCredentials)
	}
	if len(password) < minPasswordLength {
		return models.User{}, "", fmt.Errorf("service: %w - password must be at least %d characters", auctionerrors.ErrInvalidCredentials, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("service: failed to hash password: %w", err)
	}

	u := models.User{
		UserID:       utils.GenerateID(),
		Username:     username,
		PasswordHash: string(hash),
	}

	if err := s.store.CreateUser(u); err != nil {
		return models.User{}, "", fmt.Errorf("service: failed to register user %s: %w", username, err)
	}

	token, err := s.tokens.Issue(u.UserID, u.Username)
	if err != nil {
		return models.User{}, "", fmt.Errorf("service: failed to issue token for user %s: %w", username, err)
	}

	return u, token, nil
}

// Login verifies credentials and returns the account with a signed token
func (s *UserService) Login(username, password string) (models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, "", fmt.Errorf("service: %w - missing username or password", auctionerrors.ErrInvalidCredentials)
	}

	u, err := s.store.GetUserByUsername(username)
	if err != nil {
		// An unknown username reads the same as a wrong password to the caller.
		return models.User{}, "", fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(u.UserID, u.Username)
	if err != nil {
		return models.User{}, "", fmt.Errorf("service: failed to issue token for user %s: %w", username, err)
	}

	return u, token, nil
}

// ResolveUsernames maps user ids to display usernames, skipping ids that no
// longer resolve. Used to decorate auction responses.
func (s *UserService) ResolveUsernames(userIDs []string) map[string]string {
	names := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		if id == "" {
			continue
		}
		if _, ok := names[id]; ok {
			continue
		}
		u, err := s.store.GetUserByID(id)
		if err != nil {
			continue
		}
		names[id] = u.Username
	}
	return names
}
