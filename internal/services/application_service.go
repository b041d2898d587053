// internal/services/application_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/amendments"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/permissions"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/store"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/utils"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/versiontree"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/workflow"
)

// ApplicationService orchestrates the data access request lifecycle:
// submission, custodian review workflows, amendments and final decisions.
type ApplicationService struct {
	applications store.ApplicationStore
	users        store.UserDirectory
	resolver     *permissions.Resolver
	dispatcher   dispatcher
	now          func() time.Time
}

type CreateApplicationRequest struct {
	PublisherID     uuid.UUID              `json:"publisher_id" validate:"required"`
	DatasetIDs      []string               `json:"dataset_ids" validate:"required,min=1"`
	AuthorIDs       []string               `json:"author_ids,omitempty"`
	QuestionAnswers map[string]interface{} `json:"question_answers,omitempty"`
	Uses5Safes      bool                   `json:"uses_5_safes"`
}

type AssignWorkflowRequest struct {
	WorkflowName string                `json:"workflow_name" validate:"required,min=2"`
	Steps        []models.WorkflowStep `json:"steps" validate:"required,min=1"`
}

type RecommendationRequest struct {
	StepIndex int    `json:"step_index" validate:"min=0"`
	Approved  bool   `json:"approved"`
	Comments  string `json:"comments,omitempty"`
}

type FinalDecisionRequest struct {
	Status      models.ApplicationStatus `json:"status" validate:"required,oneof=approved rejected 'approved with conditions'"`
	Description string                   `json:"description,omitempty"`
}

func NewApplicationService(
	applications store.ApplicationStore,
	users store.UserDirectory,
	resolver *permissions.Resolver,
	notifications store.NotificationSink,
	activityLog store.ActivityLogSink,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		users:        users,
		resolver:     resolver,
		dispatcher:   dispatcher{notifications: notifications, activityLog: activityLog},
		now:          time.Now,
	}
}

// CreateApplication opens a new draft application owned by the applicant.
func (s *ApplicationService) CreateApplication(applicantID uuid.UUID, req *CreateApplicationRequest) (*models.DataAccessRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	app := &models.DataAccessRequest{
		ApplicantID:       applicantID,
		AuthorIDs:         pq.StringArray(req.AuthorIDs),
		PublisherID:       req.PublisherID,
		DatasetIDs:        pq.StringArray(req.DatasetIDs),
		ApplicationStatus: models.ApplicationStatusInProgress,
		ApplicationType:   models.ApplicationTypeInitial,
		MajorVersion:      1,
		QuestionAnswers:   models.JSONB(req.QuestionAnswers),
		Uses5Safes:        req.Uses5Safes,
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	app.VersionTree = versiontree.Build(app)

	if err := s.applications.Save(app); err != nil {
		return nil, err
	}
	return app, nil
}

// SubmitApplication moves an in-progress application into the custodian's
// queue and stamps the first entry of its version tree.
func (s *ApplicationService) SubmitApplication(applicationID, userID uuid.UUID) (*models.DataAccessRequest, error) {
	app, err := s.applications.Get(applicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsApplicantOrAuthor(userID) {
		return nil, apperrors.NewNotAuthorisedError(userID.String(), "submit application")
	}
	if app.ApplicationStatus != models.ApplicationStatusInProgress {
		return nil, apperrors.NewInvalidStateError("application", string(app.ApplicationStatus), "submit")
	}

	now := s.now()
	app.ApplicationStatus = models.ApplicationStatusSubmitted
	app.DateSubmitted = &now
	app.VersionTree = versiontree.Build(app)

	if err := s.applications.Save(app); err != nil {
		return nil, err
	}
	s.dispatcher.emit("application", models.EventApplicationSubmitted, models.JSONB{
		"application_id": app.ID.String(),
		"publisher_id":   app.PublisherID.String(),
	})
	return app, nil
}

// WithdrawApplication lets the applicant pull a submitted application back
// before a final decision has been made.
func (s *ApplicationService) WithdrawApplication(applicationID, userID uuid.UUID) (*models.DataAccessRequest, error) {
	app, err := s.applications.Get(applicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsApplicantOrAuthor(userID) {
		return nil, apperrors.NewNotAuthorisedError(userID.String(), "withdraw application")
	}
	if !app.UnderReview() {
		return nil, apperrors.NewInvalidStateError("application", string(app.ApplicationStatus), "withdraw")
	}

	now := s.now()
	app.ApplicationStatus = models.ApplicationStatusWithdrawn
	app.DateFinalStatus = &now

	if err := s.applications.Save(app); err != nil {
		return nil, err
	}
	s.dispatcher.emit("application", models.EventApplicationWithdrawn, models.JSONB{
		"application_id": app.ID.String(),
	})
	return app, nil
}

// CreateResubmission opens a fresh application continuing a decided one:
// the major version increments and the predecessor's version tree carries
// over so the whole lineage stays navigable from the new record.
func (s *ApplicationService) CreateResubmission(previousID, userID uuid.UUID) (*models.DataAccessRequest, error) {
	previous, err := s.applications.Get(previousID)
	if err != nil {
		return nil, err
	}
	if !previous.IsApplicantOrAuthor(userID) {
		return nil, apperrors.NewNotAuthorisedError(userID.String(), "create resubmission")
	}
	if previous.DateFinalStatus == nil {
		return nil, apperrors.NewInvalidStateError("application", string(previous.ApplicationStatus), "resubmit before a final decision")
	}

	app := &models.DataAccessRequest{
		ApplicantID:       previous.ApplicantID,
		AuthorIDs:         previous.AuthorIDs,
		PublisherID:       previous.PublisherID,
		DatasetIDs:        previous.DatasetIDs,
		ApplicationStatus: models.ApplicationStatusInProgress,
		ApplicationType:   models.ApplicationTypeResubmission,
		MajorVersion:      previous.MajorVersion + 1,
		QuestionAnswers:   previous.QuestionAnswers,
		Uses5Safes:        previous.Uses5Safes,
		VersionTree:       previous.VersionTree,
	}
	app.ID = uuid.New()
	app.VersionTree = versiontree.Build(app)

	if err := s.applications.Save(app); err != nil {
		return nil, err
	}
	s.dispatcher.emit("application", models.EventResubmissionCreated, models.JSONB{
		"application_id": app.ID.String(),
		"previous_id":    previous.ID.String(),
		"major_version":  app.MajorVersion,
	})
	return app, nil
}

// RequestAmendment opens a new amendment iteration on behalf of the
// custodian team.
func (s *ApplicationService) RequestAmendment(applicationID, userID uuid.UUID) (*models.DataAccessRequest, error) {
	app, err := s.applications.Get(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCustodian(userID, app, "request amendment"); err != nil {
		return nil, err
	}

	if _, err := amendments.Create(app, userID, s.now()); err != nil {
		return nil, err
	}
	if err := s.applications.Save(app); err != nil {
		return nil, err
	}
	s.dispatcher.emit("application", models.EventAmendmentRequested, models.JSONB{
		"application_id": app.ID.String(),
		"iteration":      len(app.AmendmentIterations) - 1,
	})
	return app, nil
}

// ReturnAmendment hands the latest iteration back to the applicant.
func (s *ApplicationService) ReturnAmendment(applicationID, userID uuid.UUID, iterationIndex int) (*models.DataAccessRequest, error) {
	app, err := s.applications.Get(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCustodian(userID, app, "return amendment"); err != nil {
		return nil, err
	}

	if err := amendments.Return(app, iterationIndex, userID, s.now()); err != nil {
		return nil, err
	}
	if err := s.applications.Save(app); err != nil {
		return nil, err
	}
	s.dispatcher.emit("application", models.EventAmendmentReturned, models.JSONB{
		"application_id": app.ID.String(),
		"iteration":      iterationIndex,
	})
	return app, nil
}

// SubmitAmendment records the applicant's updated answers for the latest
// iteration and grows the version tree by one minor version.
func (s *ApplicationService) SubmitAmendment(applicationID, userID uuid.UUID, iterationIndex int) (*models.DataAccessRequest, error) {
	app, err := s.applications.Get(applicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsApplicantOrAuthor(userID) {
		return nil, apperrors.NewNotAuthorisedError(userID.String(), "submit amendment")
	}

	if err := amendments.Submit(app, iterationIndex, userID, s.now()); err != nil {
		return nil, err
	}
	if err := s.applications.Save(app); err != nil {
		return nil, err
	}
	s.dispatcher.emit("application", models.EventAmendmentSubmitted, models.JSONB{
		"application_id": app.ID.String(),
		"iteration":      iterationIndex,
	})
	return app, nil
}

// AssignWorkflow attaches a review workflow to a submitted application,
// activates its first step and moves the application into review.
func (s *ApplicationService) AssignWorkflow(applicationID, userID uuid.UUID, req *AssignWorkflowRequest) (*models.DataAccessRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	app, err := s.applications.Get(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCustodian(userID, app, "assign workflow"); err != nil {
		return nil, err
	}
	if app.ApplicationStatus != models.ApplicationStatusSubmitted {
		return nil, apperrors.NewInvalidStateError("application", string(app.ApplicationStatus), "assign workflow")
	}
	if app.Workflow != nil {
		return nil, apperrors.NewConflictError("workflow", app.ID.String(), "a workflow is already assigned")
	}

	now := s.now()
	wf := &models.Workflow{
		ID:           uuid.New(),
		WorkflowName: req.WorkflowName,
		Version:      1,
		Active:       true,
		Steps:        req.Steps,
	}
	firstStep := workflow.ActivateNextStep(wf, now)

	app.Workflow = wf
	app.ApplicationStatus = models.ApplicationStatusInReview

	if err := s.applications.Save(app); err != nil {
		return nil, err
	}
	s.dispatcher.emit("application", models.EventWorkflowAssigned, models.JSONB{
		"application_id": app.ID.String(),
		"workflow_name":  wf.WorkflowName,
	})
	if firstStep != -1 {
		s.dispatcher.emit("application", models.EventReviewStepStarted, models.JSONB{
			"application_id": app.ID.String(),
			"step_index":     firstStep,
			"step_name":      wf.Steps[firstStep].StepName,
		})
	}
	return app, nil
}

// RecordRecommendation stores a reviewer's verdict on the active step and
// advances the workflow when the step completes.
func (s *ApplicationService) RecordRecommendation(applicationID, reviewerID uuid.UUID, req *RecommendationRequest) (*models.DataAccessRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	app, err := s.applications.Get(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Workflow == nil {
		return nil, apperrors.NewInvalidStateError("application", string(app.ApplicationStatus), "record recommendation without workflow")
	}

	now := s.now()
	if err := workflow.RecordRecommendation(app.Workflow, req.StepIndex, reviewerID, req.Approved, req.Comments, now); err != nil {
		return nil, err
	}
	outcome, err := workflow.EvaluateStepCompletion(app.Workflow, req.StepIndex, now)
	if err != nil {
		return nil, err
	}

	if err := s.applications.Save(app); err != nil {
		return nil, err
	}

	if outcome.StepCompleted {
		s.dispatcher.emit("application", models.EventReviewStepCompleted, models.JSONB{
			"application_id": app.ID.String(),
			"step_index":     req.StepIndex,
		})
	}
	if outcome.NextStepIndex != -1 {
		s.dispatcher.emit("application", models.EventReviewStepStarted, models.JSONB{
			"application_id": app.ID.String(),
			"step_index":     outcome.NextStepIndex,
			"step_name":      app.Workflow.Steps[outcome.NextStepIndex].StepName,
		})
	}
	if workflow.FinalDecisionRequired(app.Workflow, app.ApplicationStatus) {
		s.dispatcher.emit("application", models.EventFinalDecisionRequired, models.JSONB{
			"application_id": app.ID.String(),
		})
	}
	return app, nil
}

// MakeFinalDecision records the custodian's terminal verdict.
func (s *ApplicationService) MakeFinalDecision(applicationID, userID uuid.UUID, req *FinalDecisionRequest) (*models.DataAccessRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	app, err := s.applications.Get(applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCustodian(userID, app, "make final decision"); err != nil {
		return nil, err
	}
	if app.ApplicationStatus != models.ApplicationStatusInReview {
		return nil, apperrors.NewInvalidStateError("application", string(app.ApplicationStatus), "make final decision")
	}

	now := s.now()
	app.ApplicationStatus = req.Status
	app.ApplicationStatusDesc = req.Description
	app.DateFinalStatus = &now
	if app.Workflow != nil {
		app.Workflow.Active = false
	}

	if err := s.applications.Save(app); err != nil {
		return nil, err
	}

	eventType := models.EventApplicationRejected
	if req.Status == models.ApplicationStatusApproved || req.Status == models.ApplicationStatusApprovedConds {
		eventType = models.EventApplicationApproved
	}
	s.dispatcher.emit("application", eventType, models.JSONB{
		"application_id": app.ID.String(),
		"status":         string(req.Status),
	})
	return app, nil
}

// ReviewStatus labels where the application's review sits, including the
// final-decision-required state that never becomes an application status.
func (s *ApplicationService) ReviewStatus(applicationID uuid.UUID) (models.ReviewStatus, error) {
	app, err := s.applications.Get(applicationID)
	if err != nil {
		return "", err
	}
	return workflow.DeriveReviewStatus(app.Workflow, app.ApplicationStatus), nil
}

// requireCustodian resolves the user's role against the application and
// admits managers and platform admins only.
func (s *ApplicationService) requireCustodian(userID uuid.UUID, app *models.DataAccessRequest, action string) error {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return apperrors.NewNotAuthorisedError(userID.String(), action)
	}
	id := app.ID
	result := s.resolver.Resolve(user, permissions.Query{
		ApplicationID: &id,
		PublisherID:   publisherRef(app.PublisherID),
	})
	if !result.Authorised ||
		(result.UserType != models.UserTypeManager && result.UserType != models.UserTypeAdmin) {
		return apperrors.NewNotAuthorisedError(userID.String(), action)
	}
	return nil
}

func publisherRef(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
