package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/pkg/auth"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type studentFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
}

type mentorFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Mentor, error)
}

type employerFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Employer, error)
}

// AttemptStore counts failed logins per identifier within a window.
type AttemptStore interface {
	Count(ctx context.Context, identifier string) (int64, error)
	Increment(ctx context.Context, identifier string, window time.Duration) (int64, error)
	Reset(ctx context.Context, identifier string) error
}

type tokenIssuer interface {
	IssueFor(subject string, role auth.Role, ttl time.Duration) (string, time.Time, error)
	Verify(token string) (*auth.Claims, error)
	TTL() time.Duration
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	ThrottleEnabled bool
	MaxAttempts     int
	LockoutWindow   time.Duration
}

// AuthRepositories groups the principal lookups used by login. They are
// probed in field order; the first table holding the email wins.
type AuthRepositories struct {
	Students  studentFinder
	Mentors   mentorFinder
	Employers employerFinder
}

// AuthService provides authentication use cases.
type AuthService struct {
	repos     AuthRepositories
	hasher    passwordHasher
	tokens    tokenIssuer
	attempts  AttemptStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance. attempts may be nil, in
// which case failed logins are not throttled.
func NewAuthService(repos AuthRepositories, hasher passwordHasher, tokens tokenIssuer, attempts AttemptStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.LockoutWindow <= 0 {
		config.LockoutWindow = 15 * time.Minute
	}
	return &AuthService{
		repos:     repos,
		hasher:    hasher,
		tokens:    tokens,
		attempts:  attempts,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// Login checks the credentials against students, then mentors, then employers
// and issues a bearer token whose subject is the email.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "username and password are required")
	}

	if s.throttled(ctx, req.Username) {
		s.metrics.RecordLoginAttempt(LoginResultThrottled, "")
		s.logger.Warn("login throttled", zap.String("ip", req.IP))
		return nil, appErrors.ErrTooManyRequests
	}

	principal, digest, err := s.resolve(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordFailure(ctx, req.Username, "")
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Internal(err, "failed to look up account")
	}
	if !s.hasher.Verify(req.Password, digest) {
		s.recordFailure(ctx, req.Username, principal.Type)
		return nil, appErrors.ErrInvalidCredentials
	}

	token, _, err := s.tokens.IssueFor(principal.Email, auth.Role(principal.Type), 0)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	s.resetFailures(ctx, req.Username)
	s.metrics.RecordLoginAttempt(LoginResultSuccess, principal.Type)
	s.logger.Info("login succeeded",
		zap.String("principal_type", string(principal.Type)),
		zap.Int64("principal_id", principal.ID),
	)

	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// ValidateToken verifies an access token. Every failure kind is reported to
// the caller as the same unauthorized error.
func (s *AuthService) ValidateToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug("token rejected", zap.Error(err))
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

// Me resolves the principal named by the token subject.
func (s *AuthService) Me(ctx context.Context, claims *auth.Claims) (*models.Principal, error) {
	if claims == nil || claims.Subject == "" {
		return nil, appErrors.ErrUnauthorized
	}
	principal, _, err := s.resolve(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, appErrors.Internal(err, "failed to load current user")
	}
	return principal, nil
}

// resolve probes the principal tables in order and returns the first match
// with its password digest.
func (s *AuthService) resolve(ctx context.Context, email string) (*models.Principal, string, error) {
	student, err := s.repos.Students.FindByEmail(ctx, email)
	if err == nil {
		return &models.Principal{Type: models.PrincipalStudent, ID: student.ID, Email: student.Email, Name: student.FullName, Student: student}, student.PasswordHash, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", err
	}

	mentor, err := s.repos.Mentors.FindByEmail(ctx, email)
	if err == nil {
		return &models.Principal{Type: models.PrincipalMentor, ID: mentor.ID, Email: mentor.Email, Name: mentor.FullName, Mentor: mentor}, mentor.PasswordHash, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", err
	}

	employer, err := s.repos.Employers.FindByEmail(ctx, email)
	if err == nil {
		return &models.Principal{Type: models.PrincipalEmployer, ID: employer.ID, Email: employer.Email, Name: employer.CompanyName, Employer: employer}, employer.PasswordHash, nil
	}
	return nil, "", err
}

func (s *AuthService) throttleActive() bool {
	return s.config.ThrottleEnabled && s.attempts != nil
}

// throttled fails open when the attempt store is unreachable.
func (s *AuthService) throttled(ctx context.Context, identifier string) bool {
	if !s.throttleActive() {
		return false
	}
	count, err := s.attempts.Count(ctx, identifier)
	if err != nil {
		s.logger.Warn("login attempt lookup failed", zap.Error(err))
		return false
	}
	return count >= int64(s.config.MaxAttempts)
}

func (s *AuthService) recordFailure(ctx context.Context, identifier string, principal models.PrincipalType) {
	s.metrics.RecordLoginAttempt(LoginResultFailure, principal)
	if !s.throttleActive() {
		return
	}
	if _, err := s.attempts.Increment(ctx, identifier, s.config.LockoutWindow); err != nil {
		s.logger.Warn("login attempt record failed", zap.Error(err))
	}
}

func (s *AuthService) resetFailures(ctx context.Context, identifier string) {
	if !s.throttleActive() {
		return
	}
	if err := s.attempts.Reset(ctx, identifier); err != nil {
		s.logger.Warn("login attempt reset failed", zap.Error(err))
	}
}
