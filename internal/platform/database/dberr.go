// Copyright (c) 2026 Kryspinoff. All rights reserved.

package database

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// # Driver Error Classification

// IsUniqueViolation reports whether err was caused by a unique constraint
// violation (PostgreSQL SQLSTATE 23505).
//
// Both the GORM sentinel and the raw pgconn error are checked: TranslateError
// covers the common paths, but raw SQL executed through the session still
// surfaces [*pgconn.PgError] directly.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// IsNotFound reports whether err means no row matched the query.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
