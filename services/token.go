package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lborres/cinemahub/core"
)

const (
	DefaultTokenTTL = 7 * 24 * time.Hour
	DefaultIssuer   = "cinemahub"
)

// signingMethod is the only algorithm tokens are issued with or accepted under
var signingMethod = jwt.SigningMethodHS256

type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string

	// Now overrides the clock, for tests
	Now func() time.Time
}

type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates stateless bearer tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

var _ core.TokenValidator = (*TokenService)(nil)

func NewTokenService(config TokenConfig) *TokenService {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	issuer := config.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	secret := make([]byte, len(config.Secret))
	copy(secret, config.Secret)

	return &TokenService{
		secret: secret,
		ttl:    ttl,
		issuer: issuer,
		now:    now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingMethod.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuer(issuer),
			jwt.WithStrictDecoding(),
			jwt.WithTimeFunc(now),
		),
	}
}

// Issue signs a token for username. The returned Principal mirrors the claims.
func (s *TokenService) Issue(username string) (string, *core.Principal, error) {
	if username == "" {
		return "", nil, fmt.Errorf("cannot issue token: %w", core.ErrNoSuchUser)
	}

	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)
	tokenID := uuid.NewString()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.issuer,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, &core.Principal{
		Username:  username,
		TokenID:   tokenID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate checks structure, algorithm, signature and expiry. It never
// touches storage.
func (s *TokenService) Validate(token string) (*core.Principal, error) {
	if token == "" {
		return nil, core.ErrTokenMalformed
	}

	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != signingMethod {
			return nil, core.ErrBadSignature
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, mapTokenError(err)
	}

	if claims.Subject == "" {
		return nil, core.ErrTokenMalformed
	}

	principal := &core.Principal{
		Username: claims.Subject,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		principal.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}

	return principal, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return core.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return core.ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return core.ErrTokenExpired
	default:
		return core.ErrTokenMalformed
	}
}
