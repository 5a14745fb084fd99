package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/poiesic/refind/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads the request body into v, rejecting oversized payloads.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

// isValidationError reports whether err is a caller error rather than a
// server fault.
func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyQuery) ||
		errors.Is(err, core.ErrInvalidCandidate) ||
		errors.Is(err, core.ErrInvalidFoundItem)
}
