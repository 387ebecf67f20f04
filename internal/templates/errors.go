package templates

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates the named template is not in the catalog.
var ErrNotFound = errors.New("template not found")

// MapHTTPStatus maps template domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
