package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when neither the configuration nor the caller sets a lifetime.
const DefaultTokenTTL = 30 * time.Minute

// ErrAuth is the common parent of every token verification failure.
var ErrAuth = errors.New("could not validate credentials")

// Verification failure kinds. They all match ErrAuth with errors.Is; the
// distinction is for logs and tests, never for clients.
var (
	ErrInvalidSignature = fmt.Errorf("%w: invalid signature", ErrAuth)
	ErrTokenExpired     = fmt.Errorf("%w: token expired", ErrAuth)
	ErrMalformedPayload = fmt.Errorf("%w: subject claim missing", ErrAuth)
)

// Role names the principal table a token subject was resolved from.
type Role string

const (
	RoleStudent  Role = "student"
	RoleMentor   Role = "mentor"
	RoleEmployer Role = "employer"
)

// Claims is the access token payload. Only sub and exp are part of the external
// contract; role is informational.
type Claims struct {
	Role Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenIssuer.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// TokenIssuer issues and verifies HS256 signed access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(cfg.Secret), ttl: ttl, issuer: cfg.Issuer, now: time.Now}
}

// TTL returns the default lifetime of issued tokens.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for subject. An optional ttl overrides the configured lifetime.
func (t *TokenIssuer) Issue(subject string, ttl ...time.Duration) (string, time.Time, error) {
	lifetime := t.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		lifetime = ttl[0]
	}
	return t.IssueFor(subject, "", lifetime)
}

// IssueFor signs a token for subject carrying the principal role.
func (t *TokenIssuer) IssueFor(subject string, role Role, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = t.ttl
	}
	issuedAt := t.now().UTC()
	expiresAt := issuedAt.Add(ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of token and returns its claims.
func (t *TokenIssuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidSignature
	}
	if claims.Subject == "" {
		return nil, ErrMalformedPayload
	}
	return claims, nil
}
