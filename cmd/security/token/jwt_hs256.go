package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwtUser struct {
	ID string `json:"id"`
}

// jwtClaims keeps the {"user":{"id"}} payload older clients decode.
type jwtClaims struct {
	User jwtUser `json:"user"`
	jwt.RegisteredClaims
}

type hs256Manager struct {
	issuer    string
	clockSkew time.Duration
	key       []byte
}

// NewHS256Manager builds a Manager issuing HS256 JWTs signed with cfg.Secret.
func NewHS256Manager(cfg Config) (Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSecretMissing
	}
	if len(cfg.Secret) < MinSecretBytes {
		return nil, ErrSecretTooShort
	}
	if cfg.ClockSkew < 0 {
		return nil, ErrConfig
	}

	key := make([]byte, len(cfg.Secret))
	copy(key, cfg.Secret)

	return &hs256Manager{
		issuer:    cfg.Issuer,
		clockSkew: cfg.ClockSkew,
		key:       key,
	}, nil
}

func (m *hs256Manager) Format() Format { return FormatJWT }

func (m *hs256Manager) Issue(accountID string, now time.Time) (string, error) {
	if strings.TrimSpace(accountID) == "" {
		return "", ErrConfig
	}

	claims := jwtClaims{
		User: jwtUser{ID: accountID},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   m.issuer,
			Subject:  accountID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

func (m *hs256Manager) Verify(tok string, now time.Time) (Claims, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Claims{}, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var c jwtClaims
	parsed, err := jwt.ParseWithClaims(tok, &c, func(*jwt.Token) (any, error) {
		return m.key, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	id := c.User.ID
	if id == "" || (c.Subject != "" && c.Subject != id) {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{AccountID: id, Issuer: c.Issuer}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	return out, nil
}
