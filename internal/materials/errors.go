package materials

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/hub/pkg/media"
)

// Domain errors for material operations.
var (
	ErrNotFound        = errors.New("material not found")
	ErrAssetNotFound   = errors.New("asset not found")
	ErrDuplicate       = errors.New("material already has an asset for this language")
	ErrInvalidMaterial = errors.New("invalid material")
	ErrInvalidAsset    = errors.New("invalid asset")
	ErrInvalidLanguage = errors.New("invalid language tag")
	ErrInvalidStatus   = errors.New("status must be draft, review, or published")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrInvalidFile     = errors.New("invalid file")
)

// MapHTTPStatus maps material domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidMaterial),
		errors.Is(err, ErrInvalidAsset),
		errors.Is(err, ErrInvalidLanguage),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidFile),
		errors.Is(err, media.ErrInvalidType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
