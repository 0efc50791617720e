package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/monuchauhan/nios-elearning/internal/auth"
	"github.com/monuchauhan/nios-elearning/internal/config"
	"github.com/monuchauhan/nios-elearning/internal/domain"
	"github.com/monuchauhan/nios-elearning/internal/repository"
	apperrors "github.com/monuchauhan/nios-elearning/pkg/util/errorutil"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

const (
	minPasswordLen = 6
	// bcrypt ignores everything past 72 bytes and newer x/crypto rejects it.
	maxPasswordLen = 72
)

// AuthService coordinates signup and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	names      *bluemonday.Policy
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Tokens   *auth.TokenManager
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   deps.Tokens,
		bcryptCost: cfg.BcryptCost,
		names:      bluemonday.StrictPolicy(),
		logger:     logger,
	}
}

// SignupInput is the signup payload.
type SignupInput struct {
	Name     string
	Email    string
	Mobile   string
	Password string
}

// Session is a user together with a freshly issued token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Signup validates in, creates the account and signs the user in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	name := strings.TrimSpace(s.names.Sanitize(strings.TrimSpace(in.Name)))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	mobile := strings.TrimSpace(in.Mobile)

	if name == "" || email == "" || mobile == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("all fields are required", nil)
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.NewValidationError("invalid email format", fieldDetail("email"))
	}
	if !mobilePattern.MatchString(mobile) {
		return nil, apperrors.NewValidationError("invalid mobile number, enter a 10-digit Indian mobile number", fieldDetail("mobile"))
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperrors.NewValidationError("password must be at least 6 characters", fieldDetail("password"))
	}
	if len(in.Password) > maxPasswordLen {
		return nil, apperrors.NewValidationError("password must be at most 72 bytes", fieldDetail("password"))
	}

	if err := s.ensureFree(ctx, s.users.GetByEmail, email, domain.ErrEmailTaken); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, s.users.GetByMobile, mobile, domain.ErrMobileTaken); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Mobile:       mobile,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrMobileTaken) {
			return nil, takenError(err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return s.session(user)
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.session(user)
}

// Me returns the current user.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

func (s *AuthService) session(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) ensureFree(ctx context.Context, lookup func(context.Context, string) (*domain.User, error), value string, taken error) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return takenError(taken)
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return apperrors.NewInternalError(err)
	}
}

func takenError(err error) error {
	if errors.Is(err, domain.ErrMobileTaken) {
		return apperrors.NewValidationError(domain.ErrMobileTaken.Error(), fieldDetail("mobile"))
	}
	return apperrors.NewValidationError(domain.ErrEmailTaken.Error(), fieldDetail("email"))
}

func fieldDetail(field string) map[string]any {
	return map[string]any{"field": field}
}
