package routes

import (
	"net/http"

	"github.com/JaimeStill/hub/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. OpenAPI is optional
// metadata used when the route is described in the generated spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
