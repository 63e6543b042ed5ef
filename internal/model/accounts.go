package model

import "time"

// Buyer mirrors the 'buyers' table. Buyers log in with their email address.
type Buyer struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	MobileNo     string
	ResetToken   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Seller mirrors the 'sellers' table. Sellers log in with their username and
// carry an approval status that gates login.
type Seller struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Location     string
	MobileNo     string
	NationalID   string
	Status       SellerStatus
	ResetToken   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Admin mirrors the 'admins' table. Admins log in with username or email.
type Admin struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	ResetToken   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
