package search

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrVectorBackend tags failures of the vector comparison path so the engine
// can fall back to lexical scoring. Backends that classify their own errors
// wrap this sentinel.
var ErrVectorBackend = errors.New("vector backend error")

// IsVectorBackendErr reports whether err came from the vector comparison
// path. It prefers the tagged sentinel and typed postgres errors; the final
// substring check is a known fragility kept from the original detection
// heuristic, since pgvector surfaces plain SQL errors whose exact shapes are
// unspecified.
func IsVectorBackendErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrVectorBackend) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.Contains(strings.ToLower(pgErr.Message), "vector")
	}
	return strings.Contains(strings.ToLower(err.Error()), "vector")
}
