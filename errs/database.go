package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAlreadyExists   = errors.New("already exists")
	ErrStoreQuery      = errors.New("store query failed")
	ErrStoreConnection = errors.New("store connection failed")
	ErrUnknownTable    = errors.New("unknown table")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

func NewUnknownTableError(table string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        ErrUnknownTable,
		Details:    fmt.Sprintf("table '%s' is not available through this API", table),
		Field:      "table",
	}
}

// NewStoreError classifies a raw store error into the API taxonomy. Duplicate
// key violations become 409s so callers can distinguish them from generic
// failures.
func NewStoreError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "E11000"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "no documents in result"):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        fmt.Errorf("%s %w", entity, ErrNotFound),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"), strings.Contains(errStr, "server selection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrStoreConnection,
				Details:    "Unable to reach the document store",
				Cause:      cause,
			}
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStoreQuery,
		Details:    details,
		Cause:      cause,
	}
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsUnknownTable(err error) bool {
	return errors.Is(err, ErrUnknownTable)
}
