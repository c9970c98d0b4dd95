package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	paseto "aidanwoods.dev/go-paseto"
)

// Format selects the wire format of identity tokens.
type Format string

const (
	FormatJWT    Format = "jwt"
	FormatPaseto Format = "paseto"
)

// MinSecretBytes is the minimum HS256 key size.
const MinSecretBytes = 32

// Claims is the verified content of an identity token.
type Claims struct {
	AccountID string
	IssuedAt  time.Time
	Issuer    string
}

// Manager issues and verifies identity tokens.
type Manager interface {
	Issue(accountID string, now time.Time) (string, error)
	Verify(token string, now time.Time) (Claims, error)
	Format() Format
}

// PublicKeyExporter is implemented by managers with an asymmetric key, so
// other services can verify tokens without the signing key.
type PublicKeyExporter interface {
	PublicKeyHex() string
}

// Config defines the signing setup for identity tokens.
type Config struct {
	Format Format
	Issuer string

	// Secret is the HS256 key (jwt format). Measured in bytes.
	Secret []byte
	// PasetoSecretKeyHex is the hex-encoded Ed25519 secret key (paseto format).
	PasetoSecretKeyHex string

	// ClockSkew is tolerated on the iat check.
	ClockSkew time.Duration
}

// DefaultConfig returns a configuration without key material.
func DefaultConfig() Config {
	return Config{
		Format:    FormatJWT,
		Issuer:    "notebook",
		ClockSkew: 30 * time.Second,
	}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Optional:
//   - NOTEBOOK_TOKEN_FORMAT (jwt|paseto)
//   - NOTEBOOK_TOKEN_SECRET (jwt, >= 32 bytes)
//   - NOTEBOOK_TOKEN_PASETO_KEY_HEX (paseto)
//   - NOTEBOOK_TOKEN_ISSUER
//   - NOTEBOOK_TOKEN_CLOCK_SKEW
//
// Missing key material is not an error here; see HasKey and WithEphemeralKey.
// Returns ErrConfig if a value is present but invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("NOTEBOOK_TOKEN_FORMAT")); v != "" {
		f, err := ParseFormat(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Format = f
	}
	if v := strings.TrimSpace(os.Getenv("NOTEBOOK_TOKEN_ISSUER")); v != "" {
		cfg.Issuer = v
	}
	if v := strings.TrimSpace(os.Getenv("NOTEBOOK_TOKEN_SECRET")); v != "" {
		cfg.Secret = []byte(v)
	}
	if v := strings.TrimSpace(os.Getenv("NOTEBOOK_TOKEN_PASETO_KEY_HEX")); v != "" {
		cfg.PasetoSecretKeyHex = v
	}
	if v := strings.TrimSpace(os.Getenv("NOTEBOOK_TOKEN_CLOCK_SKEW")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 || d > 10*time.Minute {
			return Config{}, fmt.Errorf("NOTEBOOK_TOKEN_CLOCK_SKEW: %w", ErrConfig)
		}
		cfg.ClockSkew = d
	}

	return cfg, nil
}

// ParseFormat accepts "jwt" or "paseto" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJWT:
		return FormatJWT, nil
	case FormatPaseto:
		return FormatPaseto, nil
	default:
		return "", fmt.Errorf("token format %q: %w", s, ErrConfig)
	}
}

// HasKey reports whether cfg carries key material for its format.
func (c Config) HasKey() bool {
	switch c.Format {
	case FormatPaseto:
		return strings.TrimSpace(c.PasetoSecretKeyHex) != ""
	default:
		return len(c.Secret) > 0
	}
}

// WithEphemeralKey returns a copy of cfg with freshly generated key material.
// Tokens signed with it stop verifying when the process exits; dev use only.
func (c Config) WithEphemeralKey() (Config, error) {
	switch c.Format {
	case FormatPaseto:
		c.PasetoSecretKeyHex = paseto.NewV4AsymmetricSecretKey().ExportHex()
	default:
		b := make([]byte, MinSecretBytes)
		if _, err := rand.Read(b); err != nil {
			return Config{}, err
		}
		c.Secret = []byte(hex.EncodeToString(b))
	}
	return c, nil
}

// New builds the Manager for cfg.Format.
func New(cfg Config) (Manager, error) {
	switch cfg.Format {
	case FormatJWT, "":
		return NewHS256Manager(cfg)
	case FormatPaseto:
		return NewPasetoV4PublicManager(cfg)
	default:
		return nil, ErrConfig
	}
}

// HashSHA256Hex returns a SHA-256 hex digest of s.
func HashSHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns a short digest that identifies a token in logs without revealing it.
func Fingerprint(tok string) string {
	if tok == "" {
		return ""
	}
	return HashSHA256Hex(tok)[:12]
}
