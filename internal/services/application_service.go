package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/recruitment-service/internal/db"
	"github.com/senyabanana/recruitment-service/internal/models"
	"github.com/senyabanana/recruitment-service/internal/notifier"
	"github.com/senyabanana/recruitment-service/internal/projector"
	"github.com/senyabanana/recruitment-service/internal/repository"
	"github.com/senyabanana/recruitment-service/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Статусы, достижимые явным действием HR/Sales. INTERVIEW и OFFER сюда не
// входят: их выставляет только проектор по исходу переговоров.
var explicitTargets = map[models.ApplicationStatus]bool{
	models.ReviewedApplication:    true,
	models.ShortlistedApplication: true,
	models.InterviewedApplication: true,
	models.HiredApplication:       true,
}

// ApplicationService управляет откликами: создание, явные переходы статуса,
// терминальные действия, журнал и отзывы.
type ApplicationService struct {
	tx           db.Runner
	applications repository.ApplicationRepository
	timeline     repository.TimelineRepository
	feedback     repository.FeedbackRepository
	employees    repository.EmployeeRepository
	notifier     notifier.Notifier
	logger       *zap.SugaredLogger
}

// NewApplicationService создает новый экземпляр ApplicationService.
func NewApplicationService(
	tx db.Runner,
	applications repository.ApplicationRepository,
	timeline repository.TimelineRepository,
	feedback repository.FeedbackRepository,
	employees repository.EmployeeRepository,
	n notifier.Notifier,
	logger *zap.SugaredLogger,
) *ApplicationService {
	return &ApplicationService{
		tx:           tx,
		applications: applications,
		timeline:     timeline,
		feedback:     feedback,
		employees:    employees,
		notifier:     n,
		logger:       logger,
	}
}

// CreateApplication создает отклик кандидата на вакансию в статусе PENDING.
func (s *ApplicationService) CreateApplication(ctx context.Context, appReq models.ApplicationRequest) (*models.JobApplication, error) {
	if appReq.JobID == "" || appReq.ApplicantID == "" {
		return nil, models.NewValidationError("missing required fields: jobId or applicantId")
	}

	var created *models.JobApplication
	err := s.tx.WithinTx(ctx, func(a *db.Adapter) error {
		applicant, err := a.Employees.GetEmployee(ctx, appReq.ApplicantID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewAuthorizationError("applicant does not exist")
			}
			return err
		}
		if applicant.Role != models.RoleApplicant {
			return models.NewAuthorizationError("only applicants may apply for a job")
		}

		jobExists, err := a.Employees.CheckJobExists(ctx, appReq.JobID)
		if err != nil {
			return err
		}
		if !jobExists {
			return models.NewNotFoundError("job not found")
		}

		app, err := a.Applications.CreateApplication(ctx, appReq)
		if err != nil {
			return err
		}
		entry := newTimelineEntry(app.ID, string(app.Status), applicant.ID, applicant.Role, "", app.CreatedAt)
		if err := a.Timeline.AppendEntry(ctx, entry); err != nil {
			return err
		}

		created = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Enqueue(notifier.Event{
		Type:          "APPLICATION_CREATED",
		ApplicationID: created.ID,
		OccurredAt:    created.CreatedAt,
	})
	return created, nil
}

// GetApplicationStatus возвращает статус отклика.
func (s *ApplicationService) GetApplicationStatus(ctx context.Context, applicationID string) (models.ApplicationStatus, error) {
	app, err := s.applications.GetApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.NewNotFoundError("application not found")
		}
		return "", err
	}
	return app.Status, nil
}

// AdvanceStatus двигает отклик вперед явным действием: REVIEWED, SHORTLISTED,
// INTERVIEWED или HIRED. Переход, который не двигает отклик, возвращает конфликт.
func (s *ApplicationService) AdvanceStatus(ctx context.Context, applicationID, actorID, status, notes string) (*models.JobApplication, error) {
	if applicationID == "" || actorID == "" || status == "" {
		return nil, models.NewValidationError("missing required parameters: applicationId, actorId or status")
	}
	target := models.ApplicationStatus(status)
	if !target.IsValid() {
		return nil, models.NewValidationError(fmt.Sprintf("invalid application status: %s", status))
	}
	if !explicitTargets[target] {
		return nil, models.NewValidationError(fmt.Sprintf("status %s cannot be set directly", target))
	}

	var advanced *models.JobApplication
	err := s.tx.WithinTx(ctx, func(a *db.Adapter) error {
		actor, err := a.Employees.GetEmployee(ctx, actorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewAuthorizationError("actor does not exist")
			}
			return err
		}
		switch {
		case target == models.HiredApplication && actor.Role != models.RoleHR && actor.Role != models.RoleSales:
			return models.NewAuthorizationError("only HR or SALES may hire")
		case target != models.HiredApplication && actor.Role != models.RoleHR:
			return models.NewAuthorizationError(fmt.Sprintf("only HR may move an application to %s", target))
		}

		app, err := a.Applications.GetApplicationForUpdate(ctx, applicationID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewNotFoundError("application not found")
			}
			return err
		}

		newStatus, moved, err := projector.Advance(app.Status, target)
		if err != nil {
			return err
		}
		if !moved {
			return models.NewConflictError(fmt.Sprintf("status %s would not advance the application from %s", target, app.Status))
		}
		if err := a.Applications.UpdateStatus(ctx, app.ID, newStatus); err != nil {
			return err
		}

		now := time.Now().UTC()
		entry := newTimelineEntry(app.ID, string(newStatus), actorID, actor.Role, notes, now)
		if err := a.Timeline.AppendEntry(ctx, entry); err != nil {
			return err
		}

		app.Status = newStatus
		app.UpdatedAt = now
		advanced = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Enqueue(notifier.Event{
		Type:          "STATUS_ADVANCED",
		ApplicationID: advanced.ID,
		OccurredAt:    advanced.UpdatedAt,
	})
	return advanced, nil
}

// SetTerminalStatus переводит отклик в REJECTED или WITHDRAWN.
// Отклонить может HR, отозвать - только сам кандидат этого отклика.
func (s *ApplicationService) SetTerminalStatus(ctx context.Context, applicationID, actorID, status, notes string) (*models.JobApplication, error) {
	if applicationID == "" || actorID == "" || status == "" {
		return nil, models.NewValidationError("missing required parameters: applicationId, actorId or status")
	}
	target := models.ApplicationStatus(status)
	if !target.IsTerminal() {
		return nil, models.NewValidationError("status must be either 'REJECTED' or 'WITHDRAWN'")
	}

	var terminated *models.JobApplication
	err := s.tx.WithinTx(ctx, func(a *db.Adapter) error {
		actor, err := a.Employees.GetEmployee(ctx, actorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewAuthorizationError("actor does not exist")
			}
			return err
		}

		app, err := a.Applications.GetApplicationForUpdate(ctx, applicationID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewNotFoundError("application not found")
			}
			return err
		}

		switch target {
		case models.RejectedApplication:
			if actor.Role != models.RoleHR {
				return models.NewAuthorizationError("only HR may reject an application")
			}
		case models.WithdrawnApplication:
			if actorID != app.ApplicantID {
				return models.NewAuthorizationError("only the applicant may withdraw their application")
			}
		}

		if err := projector.Terminate(app.Status, target); err != nil {
			return err
		}
		if err := a.Applications.UpdateStatus(ctx, app.ID, target); err != nil {
			return err
		}

		now := time.Now().UTC()
		entry := newTimelineEntry(app.ID, string(target), actorID, actor.Role, notes, now)
		if err := a.Timeline.AppendEntry(ctx, entry); err != nil {
			return err
		}

		app.Status = target
		app.UpdatedAt = now
		terminated = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Enqueue(notifier.Event{
		Type:          "APPLICATION_" + string(terminated.Status),
		ApplicationID: terminated.ID,
		OccurredAt:    terminated.UpdatedAt,
	})
	return terminated, nil
}

// GetTimeline возвращает журнал истории отклика по возрастанию created_at.
func (s *ApplicationService) GetTimeline(ctx context.Context, applicationID, limitStr, offsetStr string) ([]models.TimelineEntry, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if applicationID == "" {
		return nil, models.NewValidationError("missing required parameter: applicationId")
	}

	if _, err := s.applications.GetApplication(ctx, applicationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFoundError("application not found")
		}
		return nil, err
	}
	return s.timeline.GetTimeline(ctx, applicationID, limit, offset)
}

// SubmitFeedback сохраняет отзыв по отклику. Отзывы не участвуют в машине
// состояний и не пишутся в журнал.
func (s *ApplicationService) SubmitFeedback(ctx context.Context, applicationID, actorID string, feedbackReq models.FeedbackRequest) (*models.Feedback, error) {
	if applicationID == "" || actorID == "" {
		return nil, models.NewValidationError("missing required parameters: applicationId or actorId")
	}
	if !feedbackReq.Decision.IsValid() {
		return nil, models.NewValidationError("invalid decision, must be 'ACCEPT', 'REJECT', 'INTERVIEW' or 'PENDING'")
	}
	if feedbackReq.Rating != nil && (*feedbackReq.Rating < 1 || *feedbackReq.Rating > 5) {
		return nil, models.NewValidationError("rating must be between 1 and 5")
	}

	author, err := s.employees.GetEmployee(ctx, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewAuthorizationError("actor does not exist")
		}
		return nil, err
	}
	if _, err := s.applications.GetApplication(ctx, applicationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFoundError("application not found")
		}
		return nil, err
	}

	feedback := models.Feedback{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		Decision:      feedbackReq.Decision,
		Rating:        feedbackReq.Rating,
		Comments:      feedbackReq.Comments,
		AuthorUserID:  author.ID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.feedback.CreateFeedback(ctx, feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// GetFeedback возвращает отзывы по отклику.
func (s *ApplicationService) GetFeedback(ctx context.Context, applicationID, limitStr, offsetStr string) ([]models.Feedback, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if applicationID == "" {
		return nil, models.NewValidationError("missing required parameter: applicationId")
	}

	if _, err := s.applications.GetApplication(ctx, applicationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFoundError("application not found")
		}
		return nil, err
	}
	return s.feedback.GetFeedback(ctx, applicationID, limit, offset)
}
