// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// board service to distinguish a missing row from a store outage without
// inspecting driver errors themselves.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the targeted row does not exist, or when
// a write references an order or lift that does not exist.
var ErrNotFound = errors.New("not found")

// MySQL server error numbers inspected by the repositories.
const (
	errNoSuchTable      = 1146
	errBadField         = 1054
	errNoReferencedRow  = 1452
	errNoReferencedRow2 = 1216
)

// IsSchemaLag reports whether err means the database schema is behind
// the code: a missing table or an unknown column.  The worker join
// table is optional, so callers use this to degrade instead of fail.
func IsSchemaLag(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == errNoSuchTable || me.Number == errBadField
}

// translate maps driver errors to the sentinels above.  Errors it does
// not recognise are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		if me.Number == errNoReferencedRow || me.Number == errNoReferencedRow2 {
			return ErrNotFound
		}
	}
	return err
}
