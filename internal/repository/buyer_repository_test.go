package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/save-n-serve/internal/auth"
	"github.com/iliyamo/save-n-serve/internal/model"
)

func buyerRows(b model.Buyer) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "mobile_no", "reset_token", "created_at", "updated_at",
	}).AddRow(b.ID, b.Name, b.Email, b.PasswordHash, b.MobileNo, b.ResetToken, b.CreatedAt, b.UpdatedAt)
}

func TestBuyerRepo_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBuyerRepo(db)

	t.Run("found with normalized email", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT "+buyerCols+" FROM buyers WHERE email=? LIMIT 1")).
			WithArgs("a@x.com").
			WillReturnRows(buyerRows(model.Buyer{
				ID: 1, Name: "Alice", Email: "a@x.com", PasswordHash: "hash",
				MobileNo: "123", CreatedAt: now, UpdatedAt: now,
			}))

		b, err := repo.GetByEmail(context.Background(), "  A@X.com ")
		require.NoError(t, err)
		assert.Equal(t, int64(1), b.ID)
		assert.Equal(t, "a@x.com", b.Email)
		assert.Nil(t, b.ResetToken)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT "+buyerCols+" FROM buyers WHERE email=? LIMIT 1")).
			WithArgs("nobody@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
		assert.ErrorIs(t, err, auth.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBuyerRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBuyerRepo(db)

	insert := regexp.QuoteMeta("INSERT INTO buyers (name, email, password_hash, mobile_no) VALUES (?,?,?,?)")

	t.Run("returns the generated id", func(t *testing.T) {
		mock.ExpectExec(insert).
			WithArgs("Alice", "a@x.com", "hash", "123").
			WillReturnResult(sqlmock.NewResult(5, 1))

		id, err := repo.Create(context.Background(), &model.Buyer{
			Name: "Alice", Email: "A@X.com", PasswordHash: "hash", MobileNo: "123",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to ErrAlreadyExists", func(t *testing.T) {
		mock.ExpectExec(insert).
			WithArgs("Alice", "a@x.com", "hash", "123").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		_, err := repo.Create(context.Background(), &model.Buyer{
			Name: "Alice", Email: "a@x.com", PasswordHash: "hash", MobileNo: "123",
		})
		assert.ErrorIs(t, err, auth.ErrAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBuyerRepo_ResetPasswordByToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBuyerRepo(db)

	query := regexp.QuoteMeta("UPDATE buyers SET password_hash=?, reset_token=NULL WHERE reset_token=?")

	t.Run("consumes the token", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("newhash", "tok-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.ResetPasswordByToken(context.Background(), "tok-1", "newhash"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second use maps to ErrInvalidToken", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("newhash", "tok-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ResetPasswordByToken(context.Background(), "tok-1", "newhash")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBuyerRepo_UpdateProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBuyerRepo(db)

	query := regexp.QuoteMeta("UPDATE buyers SET name=?, email=?, mobile_no=? WHERE id=?")

	t.Run("missing record maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("Alice", "a@x.com", "123", int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateProfile(context.Background(), &model.Buyer{
			ID: 9, Name: "Alice", Email: "a@x.com", MobileNo: "123",
		})
		assert.ErrorIs(t, err, auth.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
