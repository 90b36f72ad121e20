package catalogdb

import (
	"fmt"

	"github.com/goliatone/go-catalog-cache/cache"
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeNotFound = "RECORD_NOT_FOUND"
	TextCodeQuery    = "DB_QUERY_FAILED"
)

func errNotFound(kind cache.Kind, id int64) error {
	return goerrors.New(fmt.Sprintf("%s %d not found", kind, id), goerrors.CategoryNotFound).
		WithTextCode(TextCodeNotFound).
		WithCode(404).
		WithMetadata(map[string]any{"kind": kind.String(), "id": id})
}

func errQuery(err error, kind cache.Kind, op string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("%s %s", op, kind)).
		WithTextCode(TextCodeQuery).
		WithMetadata(map[string]any{"kind": kind.String(), "op": op})
}

func errDatabase(err error, op string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "database "+op).
		WithTextCode(TextCodeQuery)
}
