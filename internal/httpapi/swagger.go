//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves generated OpenAPI docs at /docs when the swagger
// build tag is set. Run `swag init -g cmd/classifid/docs.go` beforehand.
func MountSwagger(r chi.Router) {
	r.Get("/docs/*", httpSwagger.Handler())
}
