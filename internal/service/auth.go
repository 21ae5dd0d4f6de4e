package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hongminglow/taskflow-be/internal/auth"
	"github.com/hongminglow/taskflow-be/internal/models"
	"github.com/hongminglow/taskflow-be/internal/storage"
)

// EventRecorder counts auth outcomes. *obs.Metrics satisfies it.
type EventRecorder interface {
	AuthEvent(operation, outcome string)
}

// AuthService implements login, signup, refresh, me and logout on top of a
// user store, the password hasher and the token manager.
type AuthService struct {
	users  storage.UserStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
	logger *slog.Logger
	events EventRecorder
}

// AuthResult is what a successful login, signup or refresh hands back.
type AuthResult struct {
	User   models.SafeUser
	Tokens auth.TokenPair
}

// SignupInput carries an already validated registration request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// LogoutResult acknowledges a logout. Tokens are not revoked server-side.
type LogoutResult struct {
	Success bool
	Message string
}

// NewAuthService wires the use-cases to their dependencies. logger and
// events may be nil.
func NewAuthService(users storage.UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager, logger *slog.Logger, events EventRecorder) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger, events: events}
}

// Login checks credentials and issues a token pair. Unknown email and wrong
// password produce the same error after the same amount of hashing work.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.record("login", "error")
			return AuthResult{}, fmt.Errorf("find user: %w", err)
		}
		s.hasher.Burn(password)
		s.record("login", "rejected")
		return AuthResult{}, auth.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unusable", "user_id", user.ID, "error", err)
		s.record("login", "error")
		return AuthResult{}, err
	}
	if !ok {
		s.record("login", "rejected")
		return AuthResult{}, auth.ErrInvalidCredentials
	}

	result, err := s.issue(user)
	if err != nil {
		s.record("login", "error")
		return AuthResult{}, err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	s.record("login", "success")
	return result, nil
}

// Signup creates a user and logs them in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	if !in.Role.Valid() {
		s.record("signup", "rejected")
		return AuthResult{}, validation.Errors{"role": errors.New("must be one of Product Manager, Developer, Designer")}
	}
	email := normalizeEmail(in.Email)

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.record("signup", "rejected")
		return AuthResult{}, auth.ErrEmailAlreadyRegistered
	case !errors.Is(err, storage.ErrNotFound):
		s.record("signup", "error")
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.record("signup", "error")
		return AuthResult{}, err
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Role:         in.Role,
		Skills:       []string{},
		PasswordHash: hash,
	})
	if err != nil {
		// A concurrent signup can win the race between lookup and insert.
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.record("signup", "rejected")
			return AuthResult{}, auth.ErrEmailAlreadyRegistered
		}
		s.record("signup", "error")
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	result, err := s.issue(user)
	if err != nil {
		s.record("signup", "error")
		return AuthResult{}, err
	}
	s.logger.Info("user signed up", "user_id", user.ID, "role", user.Role)
	s.record("signup", "success")
	return result, nil
}

// Refresh trades a valid refresh token for a new pair. The role in the new
// tokens is read from storage, so role changes take effect here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	claim, err := s.tokens.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		s.record("refresh", "rejected")
		return AuthResult{}, auth.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, claim.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.record("refresh", "rejected")
			return AuthResult{}, auth.ErrInvalidRefreshToken
		}
		s.record("refresh", "error")
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}

	result, err := s.issue(user)
	if err != nil {
		s.record("refresh", "error")
		return AuthResult{}, err
	}
	s.record("refresh", "success")
	return result, nil
}

// Me returns the caller's profile with aggregate stats.
func (s *AuthService) Me(ctx context.Context, claim auth.IdentityClaim) (models.UserDetail, error) {
	if err := auth.RequireAuthenticated(&claim); err != nil {
		return models.UserDetail{}, err
	}
	user, err := s.users.FindByID(ctx, claim.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.UserDetail{}, auth.ErrUserNotFound
		}
		return models.UserDetail{}, fmt.Errorf("find user: %w", err)
	}
	stats, err := s.users.UserStats(ctx, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.UserDetail{}, auth.ErrUserNotFound
		}
		return models.UserDetail{}, fmt.Errorf("user stats: %w", err)
	}
	return user.Detail(stats), nil
}

// Logout acknowledges the request. Issued tokens stay valid until they expire.
func (s *AuthService) Logout(_ context.Context) LogoutResult {
	s.record("logout", "success")
	return LogoutResult{Success: true, Message: "Logged out successfully"}
}

func (s *AuthService) issue(user models.User) (AuthResult, error) {
	pair, err := s.tokens.IssuePair(auth.ClaimFor(user))
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue tokens: %w", err)
	}
	return AuthResult{User: user.Safe(), Tokens: pair}, nil
}

func (s *AuthService) record(operation, outcome string) {
	if s.events != nil {
		s.events.AuthEvent(operation, outcome)
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
