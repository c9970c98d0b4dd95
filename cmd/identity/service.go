package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"notebook/cmd/apperr"
	"notebook/cmd/internal/validate"
	"notebook/cmd/security/password"
	"notebook/cmd/security/token"
)

// RegisterInput is the registration request.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required"`
}

// LoginInput is the credential check request.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service implements registration, login, token resolution and profile reads.
type Service struct {
	store  Store
	tokens token.Manager
	pw     password.Config
	log    *slog.Logger
	now    func() time.Time

	// dummyHash is verified when the email is unknown so both login failures cost the same.
	dummyHash string
}

// Option configures a Service.
type Option func(*Service)

// WithPasswordConfig overrides the password policy and hashing parameters.
func WithPasswordConfig(cfg password.Config) Option {
	return func(s *Service) { s.pw = cfg }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source used for ids and token timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds the identity service. tokens carries the signing key.
func NewService(store Store, tokens token.Manager, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("identity: nil store")
	}
	if tokens == nil {
		return nil, errors.New("identity: nil token manager")
	}

	s := &Service{
		store:  store,
		tokens: tokens,
		pw:     password.DefaultConfig(),
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	h, err := s.pw.Hash("dummy-password-for-timing-only")
	if err != nil {
		return nil, fmt.Errorf("identity: password config: %w", err)
	}
	s.dummyHash = h

	return s, nil
}

// Register creates an account and returns a token for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, Account, error) {
	const op = "identity.Register"

	if err := ctx.Err(); err != nil {
		return "", Account{}, apperr.Internal(op, err)
	}

	in.Name = NormalizeName(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	fields := validate.Fields(in)
	if in.Password != "" {
		if err := s.pw.Validate(in.Password); err != nil {
			fields = append(fields, apperr.FieldError{Field: "password", Message: s.passwordMessage(err)})
		}
	}
	if len(fields) > 0 {
		return "", Account{}, apperr.ValidationError{Op: op, Fields: fields}
	}

	hash, err := s.pw.Hash(in.Password)
	if err != nil {
		return "", Account{}, apperr.Internal(op, err)
	}

	now := s.now().UTC()
	id, err := NewULID(now)
	if err != nil {
		return "", Account{}, apperr.Internal(op, err)
	}

	acct, err := s.store.CreateAccount(ctx, CreateAccountInput{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Now:          now,
	})
	if err != nil {
		if apperr.IsConflict(err) {
			s.log.Info("identity.register.conflict")
		}
		return "", Account{}, apperr.Wrap(op, err)
	}

	tok, err := s.tokens.Issue(acct.ID, now)
	if err != nil {
		return "", Account{}, apperr.Internal(op, err)
	}

	s.log.Info("identity.register.ok", "account_id", acct.ID)
	return tok, acct, nil
}

// Login checks credentials and returns a fresh token.
// Unknown email and wrong password fail with the same AuthError.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, error) {
	const op = "identity.Login"

	if err := ctx.Err(); err != nil {
		return "", apperr.Internal(op, err)
	}

	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(op, in); err != nil {
		return "", err
	}

	denied := apperr.AuthError{Op: op, Reason: apperr.ReasonInvalidCredentials}

	auth, err := s.store.GetAccountByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if !apperr.IsNotFound(err) {
			return "", apperr.Wrap(op, err)
		}
		_, _ = s.pw.Verify(s.dummyHash, in.Password)
		s.log.Info("identity.login.fail", "reason", "unknown_email")
		return "", denied
	}

	ok, err := s.pw.Verify(auth.PasswordHash, in.Password)
	if err != nil {
		s.log.Error("identity.login.verify.fail", "account_id", auth.ID, "err", err)
		return "", denied
	}
	if !ok {
		s.log.Info("identity.login.fail", "reason", "bad_password", "account_id", auth.ID)
		return "", denied
	}

	tok, err := s.tokens.Issue(auth.ID, s.now().UTC())
	if err != nil {
		return "", apperr.Internal(op, err)
	}

	s.log.Info("identity.login.ok", "account_id", auth.ID)
	return tok, nil
}

// ResolveIdentity verifies tok and returns the Caller it proves.
// It is stateless: the account store is not consulted.
func (s *Service) ResolveIdentity(ctx context.Context, tok string) (Caller, error) {
	const op = "identity.ResolveIdentity"

	if err := ctx.Err(); err != nil {
		return Caller{}, apperr.Internal(op, err)
	}

	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Caller{}, apperr.AuthError{Op: op, Reason: apperr.ReasonInvalidToken}
	}

	claims, err := s.tokens.Verify(tok, s.now().UTC())
	if err != nil {
		s.log.Debug("identity.resolve.reject", "token_fp", token.Fingerprint(tok))
		return Caller{}, apperr.AuthError{Op: op, Reason: apperr.ReasonInvalidToken}
	}

	return NewCaller(claims.AccountID, claims.IssuedAt), nil
}

// GetProfile returns the public fields of the account with accountID.
func (s *Service) GetProfile(ctx context.Context, accountID string) (Profile, error) {
	const op = "identity.GetProfile"

	if strings.TrimSpace(accountID) == "" {
		return Profile{}, apperr.NotFoundError{Op: op, Resource: "account"}
	}

	acct, err := s.store.GetAccountByID(ctx, accountID)
	if err != nil {
		return Profile{}, apperr.Wrap(op, err)
	}
	return acct.Profile(), nil
}

func (s *Service) passwordMessage(err error) string {
	switch {
	case errors.Is(err, password.ErrPasswordTooShort):
		return fmt.Sprintf("password must be at least %d characters", s.pw.Policy.MinLength)
	case errors.Is(err, password.ErrPasswordTooLong):
		return fmt.Sprintf("password must be at most %d characters", s.pw.Policy.MaxLength)
	default:
		return "password is invalid"
	}
}
