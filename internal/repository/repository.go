// Package repository implements the per-role credential stores on top of
// MySQL. Driver errors are mapped onto the auth failure taxonomy so handlers
// and services never branch on raw SQL errors.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/save-n-serve/internal/auth"
)

// mysqlDuplicateEntry is the server error number for unique key violations.
const mysqlDuplicateEntry = 1062

// mapRowErr converts sql.ErrNoRows into auth.ErrNotFound.
func mapRowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return auth.ErrNotFound
	}
	return err
}

// mapExecErr converts unique key violations into auth.ErrAlreadyExists.
func mapExecErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return auth.ErrAlreadyExists
	}
	return err
}

// requireRow turns an UPDATE/DELETE that touched no rows into notFound.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
