// Package auth implements the authentication core: password hashing with
// lazy migration of legacy plaintext credentials, signed expiring tokens,
// and the role-parametrized login / registration / password-reset flows.
package auth

import "errors"

// Failure taxonomy shared by services, repositories and handlers. Handlers
// translate these into HTTP statuses; repositories map driver errors onto
// them so callers never see raw SQL errors.
var (
	// ErrNotFound is returned when a credential record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when registration collides with an
	// existing identifier.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidCredentials covers both unknown identifiers and password
	// mismatches, so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotApproved is returned when a seller authenticates correctly but
	// has not been approved by an admin yet.
	ErrNotApproved = errors.New("account not approved")

	// ErrInvalidToken is returned for unknown or already-used reset tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMailDelivery is returned when a reset token was stored but the
	// notification mail could not be dispatched.
	ErrMailDelivery = errors.New("mail delivery failed")
)

// Bearer token decode failures. Validate() collapses these into false;
// callers that need the specific kind use Decode() and errors.Is.
var (
	ErrTokenMalformed   = errors.New("token malformed")
	ErrTokenExpired     = errors.New("token expired")
	ErrSignatureInvalid = errors.New("token signature invalid")
)
