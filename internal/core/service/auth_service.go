package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clearbooks/ledger-api/internal/core/domain"
	"github.com/clearbooks/ledger-api/internal/core/ports"
)

// AuthService implements the session guard: it mediates the credential
// exchange, enforces the failed-attempt cooldown, and keeps the session
// store as the single authority over which bearer tokens are live.
type AuthService struct {
	users      ports.UserRepository
	roles      ports.RoleRepository
	sessions   ports.SessionStore
	limiter    ports.RateLimiter
	jwtSecret  string
	sessionTTL time.Duration
	// signInTimeout bounds the credential exchange so a slow identity
	// store surfaces a distinguishable timeout instead of hanging callers.
	signInTimeout time.Duration
	log           zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	sessions ports.SessionStore,
	limiter ports.RateLimiter,
	jwtSecret string,
	sessionTTL time.Duration,
	signInTimeout time.Duration,
	log zerolog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if signInTimeout <= 0 {
		signInTimeout = 60 * time.Second
	}
	return &AuthService{
		users:         users,
		roles:         roles,
		sessions:      sessions,
		limiter:       limiter,
		jwtSecret:     jwtSecret,
		sessionTTL:    sessionTTL,
		signInTimeout: signInTimeout,
		log:           log,
	}
}

// SignIn validates input locally, consults the rate limiter, exchanges the
// credentials, and on success mints a session whose bearer token is returned.
// The role lookup runs last and is best-effort: the session is valid without
// it and stays at the least-privileged role when it fails.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := ValidateCredentials(email, password); err != nil {
		return "", nil, err
	}

	if s.limiter.IsLimited(ctx, email) {
		return "", nil, &domain.RateLimitError{RetryAfter: s.limiter.RemainingCooldown(ctx, email)}
	}

	exCtx, cancel := context.WithTimeout(ctx, s.signInTimeout)
	defer cancel()

	user, err := s.users.FindByEmail(exCtx, email)
	if err != nil {
		s.limiter.RecordAttempt(ctx, email)
		return "", nil, s.translateExchangeErr(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.limiter.RecordAttempt(ctx, email)
		s.log.Info().Str("email", email).Msg("sign-in rejected: bad password")
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.Confirmed {
		s.limiter.RecordAttempt(ctx, email)
		return "", nil, domain.ErrEmailUnconfirmed
	}

	s.limiter.Reset(ctx, email)

	sess := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      domain.RoleUser,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}
	token, err := s.signToken(sess)
	if err != nil {
		s.log.Error().Err(err).Msg("token signing failed")
		return "", nil, domain.ErrServer
	}
	if err := s.sessions.Save(exCtx, sess); err != nil {
		return "", nil, s.translateExchangeErr(err)
	}

	// The session is live from here on; a failed role lookup must not
	// roll it back.
	if role, err := s.roles.RoleFor(exCtx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("role lookup failed, keeping default role")
	} else if role.Valid() && role != sess.Role {
		sess.Role = role
		if err := s.sessions.Save(exCtx, sess); err != nil {
			s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("session role refresh failed")
			sess.Role = domain.RoleUser
		}
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(sess.Role)).Msg("sign-in succeeded")
	return token, &sess, nil
}

// SignOut deletes the stored session. Unknown ids are a no-op so redundant
// invocations (concurrent 401 handling, double logout) are harmless.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("session delete failed")
		return s.translateExchangeErr(err)
	}
	return nil
}

// Register provisions a dashboard account and assigns its role.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := ValidateCredentials(email, input.Password); err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Confirmed:    input.Confirmed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.roles.Assign(ctx, created.ID, input.Role); err != nil {
		s.log.Warn().Err(err).Str("user_id", created.ID).Msg("role assignment failed")
	}
	return created, nil
}

func (s *AuthService) signToken(sess domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":   sess.ID,
		"sub":   sess.UserID,
		"email": sess.Email,
		"exp":   sess.ExpiresAt.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// translateExchangeErr maps identity-store failures onto the fixed taxonomy
// so callers never see provider-specific error shapes. A missing user is
// reported as invalid credentials to avoid account enumeration.
func (s *AuthService) translateExchangeErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return domain.ErrInvalidCredentials
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ErrTimeout
	case errors.Is(err, context.Canceled):
		return domain.ErrNetwork
	default:
		s.log.Error().Err(err).Msg("identity store error")
		return domain.ErrServer
	}
}
