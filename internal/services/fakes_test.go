// internal/services/fakes_test.go
package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/datasets"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/store"
)

type fakeApplicationStore struct {
	mu   sync.Mutex
	apps map[uuid.UUID]models.DataAccessRequest
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{apps: map[uuid.UUID]models.DataAccessRequest{}}
}

func (f *fakeApplicationStore) Get(id uuid.UUID) (*models.DataAccessRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("application", id.String())
	}
	copied := app
	return &copied, nil
}

func (f *fakeApplicationStore) Save(app *models.DataAccessRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps[app.ID] = *app
	return nil
}

func (f *fakeApplicationStore) FindByDatasetID(datasetID string) ([]models.DataAccessRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DataAccessRequest
	for _, app := range f.apps {
		for _, id := range app.DatasetIDs {
			if id == datasetID {
				out = append(out, app)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeApplicationStore) Search(params store.ApplicationSearchParams) ([]models.DataAccessRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DataAccessRequest
	for _, app := range f.apps {
		if params.PublisherID != nil && app.PublisherID != *params.PublisherID {
			continue
		}
		if params.ApplicantID != nil && app.ApplicantID != *params.ApplicantID {
			continue
		}
		if params.Status != nil && app.ApplicationStatus != *params.Status {
			continue
		}
		out = append(out, app)
	}
	return out, int64(len(out)), nil
}

type fakeDatasetStore struct {
	mu        sync.Mutex
	datasets  map[uuid.UUID]models.Dataset
	qualities map[uuid.UUID]models.MetadataQuality
}

func newFakeDatasetStore() *fakeDatasetStore {
	return &fakeDatasetStore{
		datasets:  map[uuid.UUID]models.Dataset{},
		qualities: map[uuid.UUID]models.MetadataQuality{},
	}
}

func (f *fakeDatasetStore) Get(id uuid.UUID) (*models.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dataset, ok := f.datasets[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("dataset", id.String())
	}
	copied := dataset
	return &copied, nil
}

func (f *fakeDatasetStore) Save(dataset *models.Dataset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.datasets[dataset.ID] = *dataset
	return nil
}

func (f *fakeDatasetStore) FindActiveByPID(pid string) (*models.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, dataset := range f.datasets {
		if dataset.PID == pid && dataset.ActiveFlag == models.ActiveFlagActive {
			copied := dataset
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError("dataset", pid)
}

func (f *fakeDatasetStore) FindSiblingsByPID(pid string) ([]models.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Dataset
	for _, dataset := range f.datasets {
		if dataset.PID == pid {
			out = append(out, dataset)
		}
	}
	return out, nil
}

func (f *fakeDatasetStore) LatestVersionForPID(pid string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := ""
	for _, dataset := range f.datasets {
		if dataset.PID != pid {
			continue
		}
		if latest == "" {
			latest = dataset.DatasetVersion
			continue
		}
		if cmp, err := datasets.CompareVersions(dataset.DatasetVersion, latest); err == nil && cmp > 0 {
			latest = dataset.DatasetVersion
		}
	}
	if latest == "" {
		return "", apperrors.NewNotFoundError("dataset", pid)
	}
	return latest, nil
}

func (f *fakeDatasetStore) SaveQuality(quality *models.MetadataQuality) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.qualities[quality.DatasetID] = *quality
	return nil
}

type fakeUserDirectory struct {
	users map[uuid.UUID]models.User
}

func newFakeUserDirectory() *fakeUserDirectory {
	return &fakeUserDirectory{users: map[uuid.UUID]models.User{}}
}

func (f *fakeUserDirectory) GetUser(id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", id.String())
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserDirectory) add(user models.User) {
	f.users[user.ID] = user
}

type fakePublisherDirectory struct {
	teams map[uuid.UUID]models.Team
}

func newFakePublisherDirectory() *fakePublisherDirectory {
	return &fakePublisherDirectory{teams: map[uuid.UUID]models.Team{}}
}

func (f *fakePublisherDirectory) GetTeamForPublisher(publisherID uuid.UUID) (*models.Team, error) {
	team, ok := f.teams[publisherID]
	if !ok {
		return nil, apperrors.NewNotFoundError("team", publisherID.String())
	}
	copied := team
	return &copied, nil
}

type recordingActivityLog struct {
	mu      sync.Mutex
	entries []models.EventType
}

func (r *recordingActivityLog) Log(eventType models.EventType, payload models.JSONB) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, eventType)
	return nil
}

func (r *recordingActivityLog) events() []models.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.EventType, len(r.entries))
	copy(out, r.entries)
	return out
}

// managerUser builds a user carrying the manager role on the publisher team.
func managerUser(publisherID uuid.UUID) models.User {
	user := models.User{Firstname: "Maya", Lastname: "Manager"}
	user.ID = uuid.New()
	user.Teams = []models.Team{publisherTeam(publisherID, user.ID, models.TeamRoleManager)}
	return user
}

func adminUser() models.User {
	user := models.User{Firstname: "Ada", Lastname: "Admin"}
	user.ID = uuid.New()
	team := models.Team{
		Type: models.TeamTypeAdmin,
		Members: models.TeamMembers{{
			UserID: user.ID,
			Roles:  []models.TeamRole{models.TeamRoleAdminDataset, models.TeamRoleAdminDAR},
		}},
	}
	team.ID = uuid.New()
	user.Teams = []models.Team{team}
	return user
}

func publisherTeam(publisherID, userID uuid.UUID, roles ...models.TeamRole) models.Team {
	team := models.Team{
		PublisherID: &publisherID,
		Type:        models.TeamTypePublisher,
		Members:     models.TeamMembers{{UserID: userID, Roles: roles}},
	}
	team.ID = uuid.New()
	return team
}
