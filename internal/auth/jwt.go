package auth

import (
	"errors"
	"time"

	"carmate-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry has passed. Callers may ask the client to re-login.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other verification failure: bad
	// signature, wrong secret, wrong issuer/audience, malformed input,
	// wrong token class.
	ErrTokenInvalid = errors.New("invalid token")
)

// Manager issues and verifies token pairs. Access and refresh tokens are
// signed with distinct secrets so a leaked secret compromises only one token
// class; a refresh token can never pass access verification and vice versa.
//
// Verification is stateless: there is no revocation list, so a token stays
// valid until its expiry regardless of server-side state.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if len(cfg.AccessSecret) < 32 || len(cfg.RefreshSecret) < 32 {
		return nil, errors.New("JWT secrets must be at least 32 bytes")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	return &Manager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}, nil
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IssuePair mints an access and a refresh token for the identity.
func (m *Manager) IssuePair(now time.Time, id Identity) (TokenPair, error) {
	access, err := m.issue(now, TokenTypeAccess, id, m.accessSecret, m.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.issue(now, TokenTypeRefresh, id, m.refreshSecret, m.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns the embedded identity.
func (m *Manager) VerifyAccess(token string, now time.Time) (Identity, error) {
	return m.verify(token, TokenTypeAccess, m.accessSecret, now)
}

// VerifyRefresh validates a refresh token and returns the embedded identity.
func (m *Manager) VerifyRefresh(token string, now time.Time) (Identity, error) {
	return m.verify(token, TokenTypeRefresh, m.refreshSecret, now)
}

// DecodeUnsafe parses claims without verifying the signature. Introspection
// only; never an input to an authorization decision.
func (m *Manager) DecodeUnsafe(token string) (Identity, bool) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, false
	}
	return claims.identity(), true
}

func (m *Manager) verify(token string, expected TokenType, secret []byte, now time.Time) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}

	if claims.TokenType != expected {
		return Identity{}, ErrTokenInvalid
	}
	if claims.UserID == "" || claims.Email == "" {
		return Identity{}, ErrTokenInvalid
	}

	return claims.identity(), nil
}

func (m *Manager) issue(now time.Time, tokenType TokenType, id Identity, secret []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UserID:    id.UserID,
		Email:     id.Email,
		CompanyID: id.CompanyID,
		IsAdmin:   id.IsAdmin,
		TokenType: tokenType,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
