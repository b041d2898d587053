// internal/permissions/resolver.go
package permissions

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/workflow"
)

// ApplicationGetter looks up one application for permission evaluation.
type ApplicationGetter interface {
	GetApplication(id uuid.UUID) (*models.DataAccessRequest, error)
}

// DatasetGetter looks up one dataset version record.
type DatasetGetter interface {
	GetDataset(id uuid.UUID) (*models.Dataset, error)
}

// TeamDirectory looks up the membership roster for a publisher.
type TeamDirectory interface {
	GetTeamForPublisher(publisherID uuid.UUID) (*models.Team, error)
}

// Query names the subject a permission check runs against. Exactly one of
// ApplicationID/DatasetID is normally set; PublisherID may be given directly.
type Query struct {
	ApplicationID *uuid.UUID
	DatasetID     *uuid.UUID
	PublisherID   *uuid.UUID
}

// Result is the resolver outcome. UserType is empty when unauthorised.
type Result struct {
	Authorised bool
	UserType   models.UserType
}

// Resolver computes a user's effective role against an application or
// dataset. It never returns an error: a permission check must not crash the
// caller, so lookup failures are logged and treated as unauthorised.
type Resolver struct {
	applications ApplicationGetter
	datasets     DatasetGetter
	teams        TeamDirectory
}

func NewResolver(applications ApplicationGetter, datasets DatasetGetter, teams TeamDirectory) *Resolver {
	return &Resolver{
		applications: applications,
		datasets:     datasets,
		teams:        teams,
	}
}

var denied = Result{Authorised: false, UserType: models.UserTypeNone}

// Resolve evaluates the role rules in order; the first match wins.
func (r *Resolver) Resolve(user *models.User, query Query) Result {
	if user == nil {
		return denied
	}

	// 1. Platform admin team membership.
	if r.isAdmin(user, query) {
		return Result{Authorised: true, UserType: models.UserTypeAdmin}
	}

	app := r.fetchApplication(user, query)
	publisherID := r.resolvePublisher(user, query, app)

	// 2-4. Publisher team roles.
	if publisherID != nil {
		if member := r.teamMember(user, *publisherID); member != nil {
			switch {
			case member.HasRole(models.TeamRoleMetadataEditor):
				return Result{Authorised: true, UserType: models.UserTypeMetadataEditor}
			case member.HasRole(models.TeamRoleManager):
				return Result{Authorised: true, UserType: models.UserTypeManager}
			}
		}
	}

	if app != nil {
		// 5. Applicant or co-author.
		if app.IsApplicantOrAuthor(user.ID) {
			return Result{Authorised: true, UserType: models.UserTypeApplicant}
		}
		// 6. Reviewer on the currently active workflow step only.
		if idx := activeStepIndex(app.Workflow); idx != -1 &&
			workflow.CanActOnStep(app.Workflow, idx, user.ID) {
			return Result{Authorised: true, UserType: models.UserTypeReviewer}
		}
	}

	return denied
}

func (r *Resolver) isAdmin(user *models.User, query Query) bool {
	required := models.TeamRoleAdminDAR
	if query.DatasetID != nil {
		required = models.TeamRoleAdminDataset
	}
	for i := range user.Teams {
		team := &user.Teams[i]
		if team.Type != models.TeamTypeAdmin {
			continue
		}
		if member := team.MemberFor(user.ID); member.HasRole(required) {
			return true
		}
	}
	return false
}

func (r *Resolver) fetchApplication(user *models.User, query Query) *models.DataAccessRequest {
	if query.ApplicationID == nil || r.applications == nil {
		return nil
	}
	app, err := r.applications.GetApplication(*query.ApplicationID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":        user.ID,
			"application_id": *query.ApplicationID,
		}).Warn("Permission check could not load application")
		return nil
	}
	return app
}

// resolvePublisher finds the owning publisher: directly given, or looked up
// from the dataset or application under check.
func (r *Resolver) resolvePublisher(user *models.User, query Query, app *models.DataAccessRequest) *uuid.UUID {
	if query.PublisherID != nil {
		return query.PublisherID
	}
	if app != nil && app.PublisherID != uuid.Nil {
		id := app.PublisherID
		return &id
	}
	if query.DatasetID != nil && r.datasets != nil {
		dataset, err := r.datasets.GetDataset(*query.DatasetID)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id":    user.ID,
				"dataset_id": *query.DatasetID,
			}).Warn("Permission check could not load dataset")
			return nil
		}
		if dataset.PublisherID != uuid.Nil {
			id := dataset.PublisherID
			return &id
		}
	}
	return nil
}

func (r *Resolver) teamMember(user *models.User, publisherID uuid.UUID) *models.TeamMember {
	// memberships carried on the user record win over a directory lookup
	for i := range user.Teams {
		team := &user.Teams[i]
		if team.PublisherID != nil && *team.PublisherID == publisherID {
			if member := team.MemberFor(user.ID); member != nil {
				return member
			}
		}
	}
	if r.teams == nil {
		return nil
	}
	team, err := r.teams.GetTeamForPublisher(publisherID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":      user.ID,
			"publisher_id": publisherID,
		}).Warn("Permission check could not load publisher team")
		return nil
	}
	return team.MemberFor(user.ID)
}

func activeStepIndex(w *models.Workflow) int {
	if w == nil {
		return -1
	}
	return w.ActiveStepIndex()
}
