package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/recruitment-service/internal/db"
	"github.com/senyabanana/recruitment-service/internal/models"
	"github.com/senyabanana/recruitment-service/internal/negotiation"
	"github.com/senyabanana/recruitment-service/internal/notifier"
	"github.com/senyabanana/recruitment-service/internal/projector"
	"github.com/senyabanana/recruitment-service/internal/repository"
	"github.com/senyabanana/recruitment-service/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// NegotiationService управляет жизненным циклом предложений: создание,
// ответ кандидата, решение владельца, отмена. Каждая мутация вместе с
// проекцией статуса и записью в журнал выполняется в одной транзакции.
type NegotiationService struct {
	tx        db.Runner
	proposals repository.ProposalRepository
	notifier  notifier.Notifier
	logger    *zap.SugaredLogger
}

// NewNegotiationService создает новый экземпляр NegotiationService.
func NewNegotiationService(tx db.Runner, proposals repository.ProposalRepository, n notifier.Notifier, logger *zap.SugaredLogger) *NegotiationService {
	return &NegotiationService{tx: tx, proposals: proposals, notifier: n, logger: logger}
}

// CreateProposal создает предложение по отклику. Существующее активное
// предложение того же предмета отменяется как замененное: активным
// остается ровно одно.
func (s *NegotiationService) CreateProposal(ctx context.Context, proposalReq models.ProposalRequest, actorID string) (*models.Proposal, error) {
	if proposalReq.ApplicationID == "" || actorID == "" {
		return nil, models.NewValidationError("missing required fields: applicationId or actorId")
	}
	if !proposalReq.SubjectType.IsValid() {
		return nil, models.NewValidationError("invalid subject type. Must be 'INTERVIEW' or 'OFFER'")
	}

	var created *models.Proposal
	err := s.tx.WithinTx(ctx, func(a *db.Adapter) error {
		actor, err := a.Employees.GetEmployee(ctx, actorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewAuthorizationError("actor does not exist")
			}
			return err
		}
		if actor.Role != proposalReq.SubjectType.OwnerRole() {
			return models.NewAuthorizationError(fmt.Sprintf("only %s may create %s proposals", proposalReq.SubjectType.OwnerRole(), proposalReq.SubjectType))
		}

		app, err := a.Applications.GetApplicationForUpdate(ctx, proposalReq.ApplicationID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewNotFoundError("application not found")
			}
			return err
		}
		if app.Status.IsTerminal() {
			return models.NewConflictError(fmt.Sprintf("application is already %s", app.Status))
		}

		now := time.Now().UTC()
		proposal, err := negotiation.NewProposal(app.ID, proposalReq.SubjectType, app.ApplicantID, proposalReq.Payload, now)
		if err != nil {
			return err
		}

		active, err := a.Proposals.GetActiveProposals(ctx, app.ID, proposalReq.SubjectType)
		if err != nil {
			return err
		}
		if len(active) > 1 {
			s.logger.Errorw("more than one active proposal found",
				"applicationId", app.ID, "subjectType", proposalReq.SubjectType, "count", len(active))
			return models.NewInvariantViolation("internal data integrity error")
		}
		if len(active) == 1 {
			prior := &active[0]
			if err := negotiation.Supersede(prior, proposal.ID); err != nil {
				return err
			}
			if err := a.Proposals.UpdateProposal(ctx, prior); err != nil {
				return err
			}
		}

		if err := a.Proposals.CreateProposal(ctx, proposal); err != nil {
			return err
		}
		entry := newTimelineEntry(app.ID, models.NegotiationTag(proposal.SubjectType, "PROPOSED"), actorID, actor.Role, "", now)
		if err := a.Timeline.AppendEntry(ctx, entry); err != nil {
			return err
		}

		created = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Enqueue(notifier.Event{
		Type:          "PROPOSAL_CREATED",
		ApplicationID: created.ApplicationID,
		ProposalID:    created.ID,
		SubjectType:   created.SubjectType,
		OccurredAt:    created.CreatedAt,
	})
	return created, nil
}

// Respond применяет ответ кандидата на предложение. Принятие предложения
// проецирует статус отклика к INTERVIEW или OFFER в той же транзакции.
func (s *NegotiationService) Respond(ctx context.Context, proposalID, counterpartID string, respondReq models.RespondRequest) (*models.Proposal, error) {
	if proposalID == "" || counterpartID == "" {
		return nil, models.NewValidationError("missing required fields: proposalId or counterpartId")
	}

	var responded *models.Proposal
	err := s.tx.WithinTx(ctx, func(a *db.Adapter) error {
		proposal, err := a.Proposals.GetProposalForUpdate(ctx, proposalID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewNotFoundError("proposal not found")
			}
			return err
		}

		app, err := s.activeApplication(ctx, a, proposal.ApplicationID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := negotiation.Respond(proposal, counterpartID, respondReq.Decision, respondReq.Suggestion, respondReq.Notes, now); err != nil {
			return err
		}
		if err := a.Proposals.UpdateProposal(ctx, proposal); err != nil {
			return err
		}

		entryStatus := models.NegotiationTag(proposal.SubjectType, "COUNTERED")
		if proposal.State == models.AcceptedProposal {
			entryStatus = models.NegotiationTag(proposal.SubjectType, "ACCEPTED")
			projected, err := s.projectOutcome(ctx, a, app, proposal.SubjectType)
			if err != nil {
				return err
			}
			if projected != "" {
				entryStatus = string(projected)
			}
		}

		entry := newTimelineEntry(proposal.ApplicationID, entryStatus, counterpartID, models.RoleApplicant, respondReq.Notes, now)
		if err := a.Timeline.AppendEntry(ctx, entry); err != nil {
			return err
		}

		responded = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	eventType := "PROPOSAL_COUNTERED"
	if responded.State == models.AcceptedProposal {
		eventType = "PROPOSAL_ACCEPTED"
	}
	s.notifier.Enqueue(notifier.Event{
		Type:          eventType,
		ApplicationID: responded.ApplicationID,
		ProposalID:    responded.ID,
		SubjectType:   responded.SubjectType,
		OccurredAt:    time.Now().UTC(),
	})
	return responded, nil
}

// Review применяет решение владельца по встречному предложению.
// Утверждение проецирует статус отклика; явная замена нагрузки порождает
// новое предложение и отменяет текущее как замененное.
func (s *NegotiationService) Review(ctx context.Context, proposalID, actorID string, reviewReq models.ReviewRequest) (*models.Proposal, error) {
	if proposalID == "" || actorID == "" {
		return nil, models.NewValidationError("missing required fields: proposalId or actorId")
	}

	var reviewed *models.Proposal
	err := s.tx.WithinTx(ctx, func(a *db.Adapter) error {
		actor, err := a.Employees.GetEmployee(ctx, actorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewAuthorizationError("actor does not exist")
			}
			return err
		}

		proposal, err := a.Proposals.GetProposalForUpdate(ctx, proposalID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewNotFoundError("proposal not found")
			}
			return err
		}
		if actor.Role != proposal.OwnerRole {
			return models.NewAuthorizationError(fmt.Sprintf("only %s may review %s proposals", proposal.OwnerRole, proposal.SubjectType))
		}

		app, err := s.activeApplication(ctx, a, proposal.ApplicationID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		spawned, err := negotiation.Review(proposal, reviewReq.Decision, reviewReq.NewPayload, reviewReq.Notes, now)
		if err != nil {
			return err
		}
		if err := a.Proposals.UpdateProposal(ctx, proposal); err != nil {
			return err
		}
		if spawned != nil {
			if err := a.Proposals.CreateProposal(ctx, spawned); err != nil {
				return err
			}
		}

		var entryStatus string
		switch {
		case proposal.State == models.ResolvedApprovedProposal:
			entryStatus = models.NegotiationTag(proposal.SubjectType, "REVIEW_APPROVED")
			projected, err := s.projectOutcome(ctx, a, app, proposal.SubjectType)
			if err != nil {
				return err
			}
			if projected != "" {
				entryStatus = string(projected)
			}
		case spawned != nil:
			entryStatus = models.NegotiationTag(proposal.SubjectType, "REPROPOSED")
		default:
			entryStatus = models.NegotiationTag(proposal.SubjectType, "REVIEW_REJECTED")
		}

		entry := newTimelineEntry(proposal.ApplicationID, entryStatus, actorID, actor.Role, reviewReq.Notes, now)
		if err := a.Timeline.AppendEntry(ctx, entry); err != nil {
			return err
		}

		reviewed = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Enqueue(notifier.Event{
		Type:          "PROPOSAL_REVIEWED",
		ApplicationID: reviewed.ApplicationID,
		ProposalID:    reviewed.ID,
		SubjectType:   reviewed.SubjectType,
		OccurredAt:    time.Now().UTC(),
	})
	return reviewed, nil
}

// CancelProposal отменяет нефинальное предложение явным действием владельца.
func (s *NegotiationService) CancelProposal(ctx context.Context, proposalID, actorID string) (*models.Proposal, error) {
	if proposalID == "" || actorID == "" {
		return nil, models.NewValidationError("missing required fields: proposalId or actorId")
	}

	var cancelled *models.Proposal
	err := s.tx.WithinTx(ctx, func(a *db.Adapter) error {
		actor, err := a.Employees.GetEmployee(ctx, actorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewAuthorizationError("actor does not exist")
			}
			return err
		}

		proposal, err := a.Proposals.GetProposalForUpdate(ctx, proposalID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.NewNotFoundError("proposal not found")
			}
			return err
		}
		if actor.Role != proposal.OwnerRole {
			return models.NewAuthorizationError(fmt.Sprintf("only %s may cancel %s proposals", proposal.OwnerRole, proposal.SubjectType))
		}

		if err := negotiation.Cancel(proposal); err != nil {
			return err
		}
		if err := a.Proposals.UpdateProposal(ctx, proposal); err != nil {
			return err
		}

		now := time.Now().UTC()
		entry := newTimelineEntry(proposal.ApplicationID, models.NegotiationTag(proposal.SubjectType, "CANCELLED"), actorID, actor.Role, "", now)
		if err := a.Timeline.AppendEntry(ctx, entry); err != nil {
			return err
		}

		cancelled = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Enqueue(notifier.Event{
		Type:          "PROPOSAL_CANCELLED",
		ApplicationID: cancelled.ApplicationID,
		ProposalID:    cancelled.ID,
		SubjectType:   cancelled.SubjectType,
		OccurredAt:    time.Now().UTC(),
	})
	return cancelled, nil
}

// GetProposal возвращает предложение по ID.
func (s *NegotiationService) GetProposal(ctx context.Context, proposalID string) (*models.Proposal, error) {
	proposal, err := s.proposals.GetProposal(ctx, proposalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewNotFoundError("proposal not found")
		}
		return nil, err
	}
	return proposal, nil
}

// ListProposals возвращает список предложений по отклику.
func (s *NegotiationService) ListProposals(ctx context.Context, applicationID, limitStr, offsetStr string) ([]models.Proposal, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if applicationID == "" {
		return nil, models.NewValidationError("missing required parameter: applicationId")
	}
	return s.proposals.ListProposals(ctx, applicationID, limit, offset)
}

// activeApplication возвращает отклик предложения с блокировкой строки.
// Поглощающий статус отклика закрывает переговоры: ответ или решение по еще
// активному предложению возвращают конфликт, как и создание нового.
func (s *NegotiationService) activeApplication(ctx context.Context, a *db.Adapter, applicationID string) (*models.JobApplication, error) {
	app, err := a.Applications.GetApplicationForUpdate(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Errorw("proposal references a missing application", "applicationId", applicationID)
			return nil, models.NewInvariantViolation("internal data integrity error")
		}
		return nil, err
	}
	if app.Status.IsTerminal() {
		return nil, models.NewConflictError(fmt.Sprintf("application is already %s", app.Status))
	}
	return app, nil
}

// projectOutcome двигает статус отклика к целевому для предмета предложения.
// Возвращает новый статус, если проекция сдвинула отклик, иначе пустую строку.
func (s *NegotiationService) projectOutcome(ctx context.Context, a *db.Adapter, app *models.JobApplication, subject models.SubjectType) (models.ApplicationStatus, error) {
	newStatus, moved, err := projector.Advance(app.Status, projector.StatusForOutcome(subject))
	if err != nil {
		return "", err
	}
	if !moved {
		return "", nil
	}
	if err := a.Applications.UpdateStatus(ctx, app.ID, newStatus); err != nil {
		return "", err
	}
	return newStatus, nil
}

// newTimelineEntry собирает запись журнала для одной мутации.
func newTimelineEntry(applicationID, status, actorID string, actorRole models.Role, notes string, now time.Time) models.TimelineEntry {
	return models.TimelineEntry{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		Status:        status,
		ActorUserID:   actorID,
		ActorRole:     actorRole,
		Notes:         notes,
		CreatedAt:     now,
	}
}
