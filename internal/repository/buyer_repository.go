package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/save-n-serve/internal/auth"
	"github.com/iliyamo/save-n-serve/internal/model"
)

const buyerCols = "id,name,email,password_hash,mobile_no,reset_token,created_at,updated_at"

// BuyerRepo persists buyer credential records. Buyers are identified by
// their email address.
type BuyerRepo struct{ DB *sql.DB }

func NewBuyerRepo(db *sql.DB) *BuyerRepo { return &BuyerRepo{DB: db} }

// Create inserts a buyer and returns its ID. The PasswordHash field must
// already be hashed. Duplicate emails map to auth.ErrAlreadyExists.
func (r *BuyerRepo) Create(ctx context.Context, b *model.Buyer) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO buyers (name, email, password_hash, mobile_no) VALUES (?,?,?,?)",
		b.Name, normalizeEmail(b.Email), b.PasswordHash, b.MobileNo)
	if err != nil {
		return 0, mapExecErr(err)
	}
	return res.LastInsertId()
}

// GetByID fetches a buyer by id.
func (r *BuyerRepo) GetByID(ctx context.Context, id int64) (*model.Buyer, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+buyerCols+" FROM buyers WHERE id=? LIMIT 1", id))
}

// GetByEmail fetches a buyer by normalized email.
func (r *BuyerRepo) GetByEmail(ctx context.Context, email string) (*model.Buyer, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+buyerCols+" FROM buyers WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// List returns all buyers, newest first.
func (r *BuyerRepo) List(ctx context.Context) ([]model.Buyer, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+buyerCols+" FROM buyers ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Buyer
	for rows.Next() {
		var b model.Buyer
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.PasswordHash, &b.MobileNo,
			&b.ResetToken, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateProfile changes the mutable profile fields only. The password and
// reset token are never touched through this path.
func (r *BuyerRepo) UpdateProfile(ctx context.Context, b *model.Buyer) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE buyers SET name=?, email=?, mobile_no=? WHERE id=?",
		b.Name, normalizeEmail(b.Email), b.MobileNo, b.ID)
	if err != nil {
		return mapExecErr(err)
	}
	return requireRow(res, auth.ErrNotFound)
}

// Delete removes a buyer by id.
func (r *BuyerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM buyers WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// ----- auth.AccountStore -----

// FindByIdentifier resolves the login identifier, which for buyers is the
// email address.
func (r *BuyerRepo) FindByIdentifier(ctx context.Context, identifier string) (*auth.Account, error) {
	b, err := r.GetByEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return buyerAccount(b), nil
}

// FindByEmail resolves the reset-mail recipient.
func (r *BuyerRepo) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	b, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return buyerAccount(b), nil
}

// UpdatePasswordHash overwrites the stored hash (registration-time hashing
// and legacy login-time migration both end up here).
func (r *BuyerRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE buyers SET password_hash=? WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// SetResetToken stores a fresh reset token, replacing any prior one.
func (r *BuyerRepo) SetResetToken(ctx context.Context, id int64, token string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE buyers SET reset_token=? WHERE id=?", token, id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// ResetPasswordByToken consumes a reset token in a single conditional write,
// so two racing resets with the same token cannot both succeed.
func (r *BuyerRepo) ResetPasswordByToken(ctx context.Context, token, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE buyers SET password_hash=?, reset_token=NULL WHERE reset_token=?",
		hash, token)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrInvalidToken)
}

func (r *BuyerRepo) scanOne(row *sql.Row) (*model.Buyer, error) {
	var b model.Buyer
	err := row.Scan(&b.ID, &b.Name, &b.Email, &b.PasswordHash, &b.MobileNo,
		&b.ResetToken, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapRowErr(err)
	}
	return &b, nil
}

func buyerAccount(b *model.Buyer) *auth.Account {
	return &auth.Account{
		ID:           b.ID,
		Identifier:   b.Email,
		Email:        b.Email,
		PasswordHash: b.PasswordHash,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
