package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/save-n-serve/internal/auth"
	"github.com/iliyamo/save-n-serve/internal/model"
)

const adminCols = "id,username,email,password_hash,reset_token,created_at,updated_at"

// AdminRepo persists administrator credential records. Admins may log in
// with either their username or their email address.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// Create inserts an admin and returns its ID. The PasswordHash field must
// already be hashed. Duplicate usernames or emails map to
// auth.ErrAlreadyExists.
func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (username, email, password_hash) VALUES (?,?,?)",
		a.Username, normalizeEmail(a.Email), a.PasswordHash)
	if err != nil {
		return 0, mapExecErr(err)
	}
	return res.LastInsertId()
}

// Delete removes an admin by id.
func (r *AdminRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM admins WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// GetByID fetches an admin by id.
func (r *AdminRepo) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+adminCols+" FROM admins WHERE id=? LIMIT 1", id))
}

// GetByUsername fetches an admin by username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+adminCols+" FROM admins WHERE username=? LIMIT 1", username))
}

// ----- auth.AccountStore -----

// FindByIdentifier accepts a username or an email address.
func (r *AdminRepo) FindByIdentifier(ctx context.Context, identifier string) (*auth.Account, error) {
	a, err := r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+adminCols+" FROM admins WHERE username=? OR email=? LIMIT 1",
		identifier, normalizeEmail(identifier)))
	if err != nil {
		return nil, err
	}
	return adminAccount(a), nil
}

// FindByEmail resolves the reset-mail recipient.
func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	a, err := r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+adminCols+" FROM admins WHERE email=? LIMIT 1", normalizeEmail(email)))
	if err != nil {
		return nil, err
	}
	return adminAccount(a), nil
}

// UpdatePasswordHash overwrites the stored hash.
func (r *AdminRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET password_hash=? WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// SetResetToken stores a fresh reset token, replacing any prior one.
func (r *AdminRepo) SetResetToken(ctx context.Context, id int64, token string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET reset_token=? WHERE id=?", token, id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// ResetPasswordByToken consumes a reset token in a single conditional write.
func (r *AdminRepo) ResetPasswordByToken(ctx context.Context, token, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET password_hash=?, reset_token=NULL WHERE reset_token=?",
		hash, token)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrInvalidToken)
}

func (r *AdminRepo) scanOne(row *sql.Row) (*model.Admin, error) {
	var a model.Admin
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash,
		&a.ResetToken, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapRowErr(err)
	}
	return &a, nil
}

func adminAccount(a *model.Admin) *auth.Account {
	return &auth.Account{
		ID:           a.ID,
		Identifier:   a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
	}
}
