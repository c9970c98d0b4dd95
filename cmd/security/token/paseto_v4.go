package token

import (
	"errors"
	"strings"
	"time"

	paseto "aidanwoods.dev/go-paseto"
)

type pasetoV4PublicManager struct {
	issuer    string
	clockSkew time.Duration

	secret paseto.V4AsymmetricSecretKey
	public paseto.V4AsymmetricPublicKey
}

// NewPasetoV4PublicManager builds a Manager based on PASETO v4.public.
//
// It uses an Ed25519 keypair derived from cfg.PasetoSecretKeyHex and enforces the issuer.
func NewPasetoV4PublicManager(cfg Config) (Manager, error) {
	if strings.TrimSpace(cfg.PasetoSecretKeyHex) == "" {
		return nil, ErrSecretMissing
	}
	secret, err := paseto.NewV4AsymmetricSecretKeyFromHex(strings.TrimSpace(cfg.PasetoSecretKeyHex))
	if err != nil {
		return nil, ErrConfig
	}
	if cfg.ClockSkew < 0 {
		return nil, ErrConfig
	}

	return &pasetoV4PublicManager{
		issuer:    cfg.Issuer,
		clockSkew: cfg.ClockSkew,
		secret:    secret,
		public:    secret.Public(),
	}, nil
}

func (m *pasetoV4PublicManager) Format() Format { return FormatPaseto }

// PublicKeyHex exports the verification key so other services can check tokens.
func (m *pasetoV4PublicManager) PublicKeyHex() string {
	return m.public.ExportHex()
}

func (m *pasetoV4PublicManager) Issue(accountID string, now time.Time) (string, error) {
	if strings.TrimSpace(accountID) == "" {
		return "", ErrConfig
	}

	tok := paseto.NewToken()
	tok.SetIssuer(m.issuer)
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetString("uid", accountID)

	return tok.V4Sign(m.secret, nil), nil
}

func (m *pasetoV4PublicManager) Verify(tok string, now time.Time) (Claims, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Claims{}, ErrInvalidToken
	}

	// Validate slightly in the future so "nbf"/"iat" survive small clock differences.
	validNow := now.Add(m.clockSkew)

	// Fresh parser per call so rules never accumulate across verifies.
	p := paseto.NewParserWithoutExpiryCheck()
	p.AddRule(notIssuedAfter(validNow))
	p.AddRule(paseto.IssuedBy(m.issuer))

	parsed, err := p.ParseV4Public(m.public, tok, nil)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	uid, err := parsed.GetString("uid")
	if err != nil || uid == "" {
		return Claims{}, ErrInvalidToken
	}

	iss, _ := parsed.GetIssuer()
	iat, _ := parsed.GetIssuedAt()
	return Claims{AccountID: uid, IssuedAt: iat, Issuer: iss}, nil
}

func notIssuedAfter(t time.Time) paseto.Rule {
	return func(tok paseto.Token) error {
		iat, err := tok.GetIssuedAt()
		if err != nil {
			return err
		}
		if iat.After(t) {
			return errors.New("token issued in the future")
		}
		return nil
	}
}
