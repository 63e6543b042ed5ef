package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/save-n-serve/internal/mailer"
	"github.com/iliyamo/save-n-serve/internal/model"
)

// Account is the role-agnostic view of a credential record, enough for the
// login and reset flows. Identifier is what the user types at login and
// becomes the token subject (email for buyers, username for sellers and
// admins). Status is empty for roles without an approval gate.
type Account struct {
	ID           int64
	Identifier   string
	Email        string
	PasswordHash string
	Status       model.SellerStatus
}

// AccountStore is the per-role credential store contract. The three
// repositories in internal/repository each satisfy it.
type AccountStore interface {
	// FindByIdentifier resolves the login identifier. Returns ErrNotFound
	// when no record matches.
	FindByIdentifier(ctx context.Context, identifier string) (*Account, error)

	// FindByEmail resolves the reset-mail recipient. Returns ErrNotFound
	// when no record matches.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// UpdatePasswordHash overwrites the stored password hash.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// SetResetToken stores token on the record, replacing any prior one.
	// Only the most recent token is valid.
	SetResetToken(ctx context.Context, id int64, token string) error

	// ResetPasswordByToken atomically sets the password hash and clears the
	// reset token for the record holding token. Must be a single conditional
	// write so a token can be consumed at most once; returns ErrInvalidToken
	// when no record holds it.
	ResetPasswordByToken(ctx context.Context, token, hash string) error
}

// RoleSpec describes how the credential flows differ per role.
type RoleSpec struct {
	Role             model.Role
	RequiresApproval bool   // sellers must be APPROVED before login
	IncludeUserID    bool   // admin tokens omit the user_id claim
	ResetPath        string // front-end route the reset link points at
}

// Session is a successful login: the signed token plus the account it was
// issued for.
type Session struct {
	Token   string
	Account *Account
}

// Service runs the credential flows for one role. The same implementation
// serves buyers, sellers and admins; only the RoleSpec and the store differ.
type Service struct {
	spec    RoleSpec
	store   AccountStore
	hasher  *Hasher
	tokens  *TokenService
	mail    mailer.Mailer
	baseURL string
}

// NewService wires a credential service for one role.
func NewService(spec RoleSpec, store AccountStore, hasher *Hasher, tokens *TokenService, mail mailer.Mailer, baseURL string) *Service {
	return &Service{spec: spec, store: store, hasher: hasher, tokens: tokens, mail: mail, baseURL: baseURL}
}

// Role returns the role this service authenticates.
func (s *Service) Role() model.Role { return s.spec.Role }

// HashPassword exposes the hasher for registration paths, which persist
// role-specific records through their own repositories.
func (s *Service) HashPassword(plain string) (string, error) {
	return s.hasher.Hash(plain)
}

// Login verifies credentials and issues a token. Unknown identifiers and
// wrong passwords both come back as ErrInvalidCredentials. Sellers that are
// not APPROVED fail with ErrNotApproved before the password is checked, so
// an unapproved seller can never authenticate.
//
// A stored plaintext password that matches byte-for-byte is accepted once
// and immediately rewritten as a bcrypt hash. That write happens inside the
// login path; the store must tolerate it.
func (s *Service) Login(ctx context.Context, identifier, password string) (*Session, error) {
	acct, err := s.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if s.spec.RequiresApproval && acct.Status != model.StatusApproved {
		return nil, ErrNotApproved
	}

	switch {
	case s.hasher.Verify(acct.PasswordHash, password):
		// current scheme
	case s.hasher.IsLegacy(acct.PasswordHash, password):
		hash, hashErr := s.hasher.Hash(password)
		if hashErr != nil {
			return nil, fmt.Errorf("legacy rehash: %w", hashErr)
		}
		if err := s.store.UpdatePasswordHash(ctx, acct.ID, hash); err != nil {
			return nil, fmt.Errorf("legacy migration: %w", err)
		}
		acct.PasswordHash = hash
	default:
		return nil, ErrInvalidCredentials
	}

	var uid *int64
	if s.spec.IncludeUserID {
		id := acct.ID
		uid = &id
	}
	token, err := s.tokens.Issue(acct.Identifier, s.spec.Role, uid)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, Account: acct}, nil
}

// RequestPasswordReset generates a fresh single-use token for the account
// with the given email, stores it (replacing any previous token) and mails a
// reset link. An unknown email returns nil so the endpoint cannot be used to
// probe which addresses are registered. A mail failure is reported as
// ErrMailDelivery but the stored token stays valid.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	acct, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("reset lookup: %w", err)
	}

	token := uuid.NewString()
	if err := s.store.SetResetToken(ctx, acct.ID, token); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.baseURL + s.spec.ResetPath + "?token=" + token
	msg := mailer.Message{
		To:      acct.Email,
		Subject: "Reset Your Password - SAVE N SERVE",
		HTML:    resetMailHTML(link),
	}
	if err := s.mail.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
// The token is cleared in the same conditional write that sets the hash, so
// a second call with the same token fails with ErrInvalidToken.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrInvalidToken
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.ResetPasswordByToken(ctx, token, hash)
}

func resetMailHTML(link string) string {
	return `<h3>Hello from <span style="color:#2563EB;">SAVE N SERVE</span></h3>` +
		`<p>We received a request to reset your password.</p>` +
		`<p><a href="` + link + `" ` +
		`style="padding:10px 20px; background-color:#2563EB; color:white; text-decoration:none; border-radius:5px;">` +
		`Click here to reset your password</a></p>` +
		`<p>If you did not request this, please ignore this email.</p>` +
		`<br><p>Regards,<br><b>SAVE N SERVE Support Team</b></p>`
}
