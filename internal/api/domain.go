package api

import (
	"github.com/JaimeStill/hub/internal/materials"
	"github.com/JaimeStill/hub/internal/trails"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Materials materials.System
	Trails    trails.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	materialsSystem := materials.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Metrics,
		runtime.Logger,
		runtime.Pagination,
		runtime.AssetBase,
	)

	trailsSystem := trails.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Materials: materialsSystem,
		Trails:    trailsSystem,
	}
}
