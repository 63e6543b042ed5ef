package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/save-n-serve/internal/auth"
	"github.com/iliyamo/save-n-serve/internal/model"
)

const sellerCols = "id,name,username,email,password_hash,location,mobile_no,national_id,status,reset_token,created_at,updated_at"

// SellerRepo persists seller credential records. Sellers are identified by
// username and carry an approval status that gates login.
type SellerRepo struct{ DB *sql.DB }

func NewSellerRepo(db *sql.DB) *SellerRepo { return &SellerRepo{DB: db} }

// Create inserts a seller and returns its ID. The caller decides the status:
// self-service registration forces PENDING, admin-created sellers may start
// APPROVED. Duplicate usernames or emails map to auth.ErrAlreadyExists.
func (r *SellerRepo) Create(ctx context.Context, s *model.Seller) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sellers (name, username, email, password_hash, location, mobile_no, national_id, status) VALUES (?,?,?,?,?,?,?,?)",
		s.Name, s.Username, normalizeEmail(s.Email), s.PasswordHash,
		s.Location, s.MobileNo, s.NationalID, s.Status)
	if err != nil {
		return 0, mapExecErr(err)
	}
	return res.LastInsertId()
}

// GetByID fetches a seller by id.
func (r *SellerRepo) GetByID(ctx context.Context, id int64) (*model.Seller, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+sellerCols+" FROM sellers WHERE id=? LIMIT 1", id))
}

// GetByUsername fetches a seller by username.
func (r *SellerRepo) GetByUsername(ctx context.Context, username string) (*model.Seller, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+sellerCols+" FROM sellers WHERE username=? LIMIT 1", username))
}

// GetByEmail fetches a seller by normalized email.
func (r *SellerRepo) GetByEmail(ctx context.Context, email string) (*model.Seller, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+sellerCols+" FROM sellers WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// List returns all sellers, newest first.
func (r *SellerRepo) List(ctx context.Context) ([]model.Seller, error) {
	return r.scanMany(r.DB.QueryContext(ctx,
		"SELECT "+sellerCols+" FROM sellers ORDER BY id DESC"))
}

// ListByStatus returns sellers in the given lifecycle status.
func (r *SellerRepo) ListByStatus(ctx context.Context, status model.SellerStatus) ([]model.Seller, error) {
	return r.scanMany(r.DB.QueryContext(ctx,
		"SELECT "+sellerCols+" FROM sellers WHERE status=? ORDER BY id DESC", status))
}

// UpdateStatus moves a seller through the approval lifecycle.
func (r *SellerRepo) UpdateStatus(ctx context.Context, id int64, status model.SellerStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sellers SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// UpdateProfile changes the mutable profile fields only. Username, password
// and status are never touched through this path.
func (r *SellerRepo) UpdateProfile(ctx context.Context, s *model.Seller) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sellers SET email=?, location=?, mobile_no=?, national_id=? WHERE id=?",
		normalizeEmail(s.Email), s.Location, s.MobileNo, s.NationalID, s.ID)
	if err != nil {
		return mapExecErr(err)
	}
	return requireRow(res, auth.ErrNotFound)
}

// Delete removes a seller by id.
func (r *SellerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sellers WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// ----- auth.AccountStore -----

// FindByIdentifier resolves the login identifier, which for sellers is the
// username. The returned account carries the approval status so the service
// can enforce the login gate.
func (r *SellerRepo) FindByIdentifier(ctx context.Context, identifier string) (*auth.Account, error) {
	s, err := r.GetByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return sellerAccount(s), nil
}

// FindByEmail resolves the reset-mail recipient.
func (r *SellerRepo) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	s, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return sellerAccount(s), nil
}

// UpdatePasswordHash overwrites the stored hash.
func (r *SellerRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sellers SET password_hash=? WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// SetResetToken stores a fresh reset token, replacing any prior one.
func (r *SellerRepo) SetResetToken(ctx context.Context, id int64, token string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sellers SET reset_token=? WHERE id=?", token, id)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrNotFound)
}

// ResetPasswordByToken consumes a reset token in a single conditional write.
func (r *SellerRepo) ResetPasswordByToken(ctx context.Context, token, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sellers SET password_hash=?, reset_token=NULL WHERE reset_token=?",
		hash, token)
	if err != nil {
		return err
	}
	return requireRow(res, auth.ErrInvalidToken)
}

func (r *SellerRepo) scanOne(row *sql.Row) (*model.Seller, error) {
	var s model.Seller
	err := row.Scan(&s.ID, &s.Name, &s.Username, &s.Email, &s.PasswordHash,
		&s.Location, &s.MobileNo, &s.NationalID, &s.Status, &s.ResetToken,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapRowErr(err)
	}
	return &s, nil
}

func (r *SellerRepo) scanMany(rows *sql.Rows, err error) ([]model.Seller, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Seller
	for rows.Next() {
		var s model.Seller
		if err := rows.Scan(&s.ID, &s.Name, &s.Username, &s.Email, &s.PasswordHash,
			&s.Location, &s.MobileNo, &s.NationalID, &s.Status, &s.ResetToken,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func sellerAccount(s *model.Seller) *auth.Account {
	return &auth.Account{
		ID:           s.ID,
		Identifier:   s.Username,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		Status:       s.Status,
	}
}
