package repositorycache

import (
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeNotFound     = "NOT_FOUND"
	TextCodeNoRecords    = "NO_RECORDS"
	TextCodeStoreFailure = "STORE_FAILURE"
)

var (
	// ErrNotFound is returned by GetItem when the persistent store has no such record.
	ErrNotFound = goerrors.New("record not found", goerrors.CategoryNotFound).
			WithTextCode(TextCodeNotFound).
			WithCode(404)

	// ErrNoRecords is returned by GetPage when the requested page is empty.
	ErrNoRecords = goerrors.New("no records found", goerrors.CategoryNotFound).
			WithTextCode(TextCodeNoRecords).
			WithCode(404)
)

// IsStoreFailure reports whether err came from the persistent store rather than
// from a negative result.
func IsStoreFailure(err error) bool {
	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.TextCode == TextCodeStoreFailure
}

// isNotFound recognises absence reported by the persistent store, either through the
// not_found category, our own sentinel or database/sql.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, sql.ErrNoRows) ||
		goerrors.IsNotFound(err)
}
