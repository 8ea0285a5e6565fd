package trails

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/hub/internal/materials"
)

// Domain errors for trail operations.
var (
	ErrNotFound        = errors.New("trail not found")
	ErrDuplicate       = errors.New("trail already exists")
	ErrInvalidTrail    = errors.New("invalid trail")
	ErrInvalidMaterial = errors.New("trail references an unknown or repeated material")
)

// MapHTTPStatus maps trail domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidTrail),
		errors.Is(err, ErrInvalidMaterial),
		errors.Is(err, materials.ErrInvalidStatus):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
