package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/logger"
	"kbcportal/internal/infrastructure/repository"
	"kbcportal/internal/infrastructure/security"
)

const SessionTTL = 14 * 24 * time.Hour

// SessionStore keeps server-side sessions so a token dies with its session.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (uint, error)
	Delete(ctx context.Context, sessionID string) error
}

type AuthUseCase struct {
	userRepo     *repository.UserRepository
	sessions     SessionStore
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	log          *logger.Logger
}

func NewAuthUseCase(
	ur *repository.UserRepository,
	ss SessionStore,
	h *security.PasswordHasher,
	tm *security.TokenManager,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo:     ur,
		sessions:     ss,
		hasher:       h,
		tokenManager: tm,
		log:          log.With("usecase", "auth"),
	}
}

// Signup registers a member who waits for admin approval.
func (uc *AuthUseCase) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusPending,
		Role:         domain.RoleMember,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info("member signed up", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if user.PasswordHash == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := uc.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsApproved() {
		return "", nil, domain.ErrPendingApproval
	}

	sessionID := uuid.NewString()
	if err := uc.sessions.Save(ctx, sessionID, user.ID, SessionTTL); err != nil {
		return "", nil, err
	}
	token, err := uc.tokenManager.Generate(user.ID, sessionID, SessionTTL)
	if err != nil {
		_ = uc.sessions.Delete(ctx, sessionID)
		return "", nil, err
	}
	return token, user, nil
}

// Logout ends the session behind token. An unknown or invalid token is not
// an error.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	_, sessionID, err := uc.tokenManager.Parse(token)
	if err != nil {
		return nil
	}
	return uc.sessions.Delete(ctx, sessionID)
}

// Authenticate resolves a session token to its user.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, sessionID, err := uc.tokenManager.Parse(token)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	storedID, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if storedID != userID {
		return nil, domain.ErrSessionNotFound
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return user, nil
}

// BootstrapAdmin creates or resets an approved admin account.
func (uc *AuthUseCase) BootstrapAdmin(ctx context.Context, name, email, password string) (bool, error) {
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	return uc.userRepo.UpsertAdmin(ctx, name, email, hash)
}
