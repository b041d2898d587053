// internal/services/adapters.go
package services

import (
	"github.com/google/uuid"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/permissions"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/store"
)

// applicationGetter adapts the application store to the permission
// resolver's read-only view.
type applicationGetter struct {
	store store.ApplicationStore
}

func (g applicationGetter) GetApplication(id uuid.UUID) (*models.DataAccessRequest, error) {
	return g.store.Get(id)
}

type datasetGetter struct {
	store store.DatasetStore
}

func (g datasetGetter) GetDataset(id uuid.UUID) (*models.Dataset, error) {
	return g.store.Get(id)
}

// NewPermissionResolver wires the stores into the permission resolver.
func NewPermissionResolver(
	applications store.ApplicationStore,
	datasets store.DatasetStore,
	teams store.PublisherDirectory,
) *permissions.Resolver {
	return permissions.NewResolver(
		applicationGetter{store: applications},
		datasetGetter{store: datasets},
		teams,
	)
}
