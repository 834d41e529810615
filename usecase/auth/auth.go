package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

// UseCase handles the passwordless email login flow: a known email resumes
// the account, an unknown one registers it and seeds the welcome tasks.
type UseCase struct {
	users     repository.UserRepository
	tasks     repository.TaskRepository
	sessions  repository.SessionRepository
	jwtSecret string
	jwtIssuer string
	logger    *zap.Logger
}

// LoginResult bundles everything the login endpoint returns.
type LoginResult struct {
	User    *domain.User    `json:"user"`
	Session *domain.Session `json:"session"`
	Token   string          `json:"token"`
	// NewUser reports whether this login registered the account.
	NewUser bool `json:"new_user"`
}

func New(users repository.UserRepository, tasks repository.TaskRepository, sessions repository.SessionRepository, jwtSecret, jwtIssuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:     users,
		tasks:     tasks,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
		logger:    logger,
	}
}

// Login creates or resumes the account for the given email and opens a session.
func (uc *UseCase) Login(ctx context.Context, email, name string, ttl time.Duration) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, domain.ErrInvalidPayload
	}

	newUser := false
	user, err := uc.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		user, err = uc.register(ctx, email, name)
		if err != nil {
			return nil, err
		}
		newUser = true
	default:
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := uc.signToken(user.ID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.Bool("new_user", newUser))

	return &LoginResult{
		User:    user,
		Session: session,
		Token:   token,
		NewUser: newUser,
	}, nil
}

// GetSession returns a live session, evicting it when expired.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// RefreshSession extends an existing session.
func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

// RevokeSession logs the user out.
func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) register(ctx context.Context, email, name string) (*domain.User, error) {
	user := &domain.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}
	if err := uc.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	for _, title := range welcomeTitles(user) {
		task := &domain.Task{
			UserID: user.ID,
			Title:  title,
			Source: domain.SourceWeb,
		}
		if _, err := uc.tasks.Create(ctx, task); err != nil {
			// Welcome tasks are a nicety, not a registration requirement.
			uc.logger.Warn("failed to seed welcome task", zap.Error(err))
			break
		}
	}

	return user, nil
}

func welcomeTitles(user *domain.User) []string {
	return []string{
		fmt.Sprintf("Welcome to TaskFlow, %s!", user.FirstName()),
		"Add your first personal task",
	}
}

func (uc *UseCase) signToken(userID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"iss":     uc.jwtIssuer,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.jwtSecret))
}
