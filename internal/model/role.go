package model

// Role identifies which actor type a credential record or token belongs to.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// SellerStatus tracks the admin-approval lifecycle of a seller account.
// New sellers always start as PENDING and cannot log in until an admin
// moves them to APPROVED.
type SellerStatus string

const (
	StatusPending  SellerStatus = "PENDING"
	StatusApproved SellerStatus = "APPROVED"
	StatusRejected SellerStatus = "REJECTED"
)

// Principal is the authenticated identity derived from a bearer token.
// It is reconstructed on every request and never persisted. UserID is nil
// for admin tokens, which omit the user_id claim.
type Principal struct {
	Subject string
	Role    Role
	UserID  *int64
}
