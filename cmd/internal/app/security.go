package app

import (
	"errors"
	"fmt"
	"log/slog"

	"notebook/cmd/security/token"
)

// ValidateSecurityConfig enforces the token key policy at startup.
//
// Fail-fast: a configured but unusable key is always an error, and with
// NOTEBOOK_REQUIRE_TOKEN_SECRET=true a missing key is one too.
func ValidateSecurityConfig(cfg Config, tok token.Config) error {
	if !tok.HasKey() {
		if cfg.RequireTokenSecret {
			switch tok.Format {
			case token.FormatPaseto:
				return errors.New("security policy: NOTEBOOK_REQUIRE_TOKEN_SECRET=true but NOTEBOOK_TOKEN_PASETO_KEY_HEX is missing")
			default:
				return errors.New("security policy: NOTEBOOK_REQUIRE_TOKEN_SECRET=true but NOTEBOOK_TOKEN_SECRET is missing")
			}
		}
		return nil
	}

	// Measured in bytes, not runes: the key is used as raw bytes.
	if tok.Format != token.FormatPaseto && len(tok.Secret) < token.MinSecretBytes {
		return fmt.Errorf("security policy: NOTEBOOK_TOKEN_SECRET is too short (min %d bytes): %w",
			token.MinSecretBytes, token.ErrSecretTooShort)
	}
	return nil
}

// newTokenManager builds the identity token manager, generating a process-local
// key when none is configured and policy allows it.
func newTokenManager(cfg Config, tok token.Config, log *slog.Logger) (token.Manager, error) {
	if err := ValidateSecurityConfig(cfg, tok); err != nil {
		return nil, err
	}

	if !tok.HasKey() {
		var err error
		tok, err = tok.WithEphemeralKey()
		if err != nil {
			return nil, err
		}
		log.Warn("token.key.ephemeral", "format", string(tok.Format),
			"hint", "tokens stop verifying on restart; set NOTEBOOK_TOKEN_SECRET")
	}

	m, err := token.New(tok)
	if err != nil {
		return nil, err
	}
	if pk, ok := m.(token.PublicKeyExporter); ok {
		log.Info("token.public_key", "format", string(tok.Format), "public_key_hex", pk.PublicKeyHex())
	}
	return m, nil
}
