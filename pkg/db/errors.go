package db

import (
	"strings"

	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
)

// IsUniqueViolation reports whether err is a unique constraint conflict on
// Postgres or SQLite. A non-empty constraint narrows the match.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	if pg, ok := pkgerrors.Postgres(err); ok {
		if pg.Code != pkgerrors.PGUniqueViolation {
			return false
		}
		return constraint == "" || pg.Constraint == constraint
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "duplicate key value") {
		return false
	}
	return constraint == "" || strings.Contains(msg, constraint)
}

// IsForeignKeyViolation reports whether err is a foreign key conflict on
// Postgres or SQLite, such as deleting a row other rows still reference.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if pg, ok := pkgerrors.Postgres(err); ok {
		return pg.Code == pkgerrors.PGForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
