package negotiation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/senyabanana/recruitment-service/internal/models"

	"github.com/google/uuid"
)

// Пакет negotiation содержит чистую логику переходов предложения:
// propose -> accept/counter -> review -> resolve. Никакого I/O, все изменения
// делаются над моделью в памяти, сохранение остается на сервисном слое.

// ValidatePayload проверяет полезную нагрузку предложения по правилам предмета:
// у интервью дата строго в будущем и положительная длительность,
// у оффера положительная сумма и непустая валюта.
func ValidatePayload(subject models.SubjectType, raw json.RawMessage, now time.Time) error {
	if len(raw) == 0 {
		return models.NewValidationError("payload is required")
	}

	switch subject {
	case models.SubjectInterview:
		var payload models.InterviewPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return models.NewValidationError("invalid interview payload")
		}
		if payload.ScheduledAt.IsZero() || !payload.ScheduledAt.After(now) {
			return models.NewValidationError("scheduledAt must be strictly in the future")
		}
		if payload.DurationMinutes <= 0 {
			return models.NewValidationError("durationMinutes must be a positive integer")
		}
	case models.SubjectOffer:
		var payload models.OfferPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return models.NewValidationError("invalid offer payload")
		}
		if payload.Amount <= 0 {
			return models.NewValidationError("amount must be greater than zero")
		}
		if payload.Currency == "" {
			return models.NewValidationError("currency is required")
		}
	default:
		return models.NewValidationError(fmt.Sprintf("unsupported subject type: %s", subject))
	}
	return nil
}

// NewProposal создает предложение в состоянии PROPOSED с проверенной нагрузкой.
func NewProposal(applicationID string, subject models.SubjectType, counterpartID string, payload json.RawMessage, now time.Time) (*models.Proposal, error) {
	if err := ValidatePayload(subject, payload, now); err != nil {
		return nil, err
	}
	return &models.Proposal{
		ID:                  uuid.New().String(),
		ApplicationID:       applicationID,
		SubjectType:         subject,
		OwnerRole:           subject.OwnerRole(),
		CounterpartID:       counterpartID,
		Payload:             payload,
		State:               models.ProposedProposal,
		CounterpartResponse: models.PendingResponse,
		OwnerReview:         models.PendingReview,
		CreatedAt:           now,
	}, nil
}

// Respond применяет ответ кандидата: ACCEPT переводит предложение в ACCEPTED,
// REJECT - в COUNTERED с необязательным встречным предложением.
// Повторный ответ и ответ по финальному предложению возвращают конфликт,
// а не тихо проходят: так всплывают гонки двойной отправки.
func Respond(p *models.Proposal, counterpartID string, decision models.RespondDecision, suggestion json.RawMessage, notes string, now time.Time) error {
	if p.State.IsTerminal() {
		return models.NewConflictError(fmt.Sprintf("proposal is already resolved with state %s", p.State))
	}
	if p.State != models.ProposedProposal {
		return models.NewConflictError(fmt.Sprintf("proposal is not awaiting a response, current state is %s", p.State))
	}
	if p.CounterpartResponse != models.PendingResponse {
		return models.NewConflictError("proposal has already been responded to")
	}
	if counterpartID != p.CounterpartID {
		return models.NewAuthorizationError("only the applicant this proposal is addressed to may respond")
	}

	switch decision {
	case models.DecisionAccept:
		p.State = models.AcceptedProposal
		p.CounterpartResponse = models.AcceptedResponse
	case models.DecisionReject:
		if len(suggestion) > 0 {
			if err := ValidatePayload(p.SubjectType, suggestion, now); err != nil {
				return err
			}
			p.CounterpartSuggestion = suggestion
		}
		p.State = models.CounteredProposal
		p.CounterpartResponse = models.RejectedResponse
		p.CounterpartNotes = notes
		p.OwnerReview = models.PendingReview
	default:
		return models.NewValidationError("invalid decision, must be either 'ACCEPT' or 'REJECT'")
	}

	respondedAt := now
	p.CounterpartRespondedAt = &respondedAt
	return nil
}

// Review применяет решение владельца по встречному предложению.
// APPROVED с предложенной кандидатом нагрузкой финализирует предложение как
// RESOLVED_APPROVED. APPROVED без нее требует явную замену и порождает новое
// PROPOSED предложение вместо текущего: утверждение никогда не финализирует
// предложение без конкретной нагрузки. REJECTED с newPayload также порождает
// новое предложение, без него переговоры завершаются как RESOLVED_REJECTED.
// Возвращает порожденное предложение, если оно есть.
func Review(p *models.Proposal, decision models.ReviewDecision, newPayload json.RawMessage, notes string, now time.Time) (*models.Proposal, error) {
	if p.State.IsTerminal() {
		return nil, models.NewConflictError(fmt.Sprintf("proposal is already resolved with state %s", p.State))
	}
	if p.State != models.CounteredProposal {
		return nil, models.NewConflictError(fmt.Sprintf("proposal is not awaiting review, current state is %s", p.State))
	}

	reviewedAt := now
	switch decision {
	case models.DecisionApprove:
		if len(p.CounterpartSuggestion) > 0 {
			// Встречное предложение проверяется повторно на момент решения:
			// предложенная кандидатом дата могла уже пройти.
			if err := ValidatePayload(p.SubjectType, p.CounterpartSuggestion, now); err != nil {
				return nil, err
			}
			p.State = models.ResolvedApprovedProposal
			p.OwnerReview = models.ApprovedReview
			p.OwnerReviewNotes = notes
			p.OwnerReviewedAt = &reviewedAt
			return nil, nil
		}
		if len(newPayload) == 0 {
			return nil, models.NewValidationError("a replacement payload is required to approve a counter without a suggestion")
		}
		spawned, err := NewProposal(p.ApplicationID, p.SubjectType, p.CounterpartID, newPayload, now)
		if err != nil {
			return nil, err
		}
		p.State = models.CancelledProposal
		p.OwnerReview = models.ApprovedReview
		p.OwnerReviewNotes = notes
		p.OwnerReviewedAt = &reviewedAt
		p.SupersededByID = &spawned.ID
		return spawned, nil
	case models.DecisionDecline:
		var spawned *models.Proposal
		if len(newPayload) > 0 {
			var err error
			spawned, err = NewProposal(p.ApplicationID, p.SubjectType, p.CounterpartID, newPayload, now)
			if err != nil {
				return nil, err
			}
			p.SupersededByID = &spawned.ID
		}
		p.OwnerReview = models.RejectedReview
		p.OwnerReviewNotes = notes
		p.OwnerReviewedAt = &reviewedAt
		p.State = models.ResolvedRejectedProposal
		return spawned, nil
	default:
		return nil, models.NewValidationError("invalid decision, must be either 'APPROVED' or 'REJECTED'")
	}
}

// Cancel переводит нефинальное предложение в CANCELLED.
func Cancel(p *models.Proposal) error {
	if p.State.IsTerminal() {
		return models.NewConflictError(fmt.Sprintf("proposal is already resolved with state %s", p.State))
	}
	p.State = models.CancelledProposal
	return nil
}

// Supersede отменяет предложение, замененное более новым с идентификатором newID.
func Supersede(p *models.Proposal, newID string) error {
	if p.State.IsTerminal() {
		return models.NewConflictError(fmt.Sprintf("proposal is already resolved with state %s", p.State))
	}
	p.State = models.CancelledProposal
	p.SupersededByID = &newID
	return nil
}

// EffectivePayload возвращает итоговую нагрузку предложения: встречное
// предложение кандидата, если владелец его утвердил, иначе исходную.
func EffectivePayload(p *models.Proposal) json.RawMessage {
	if p.State == models.ResolvedApprovedProposal && len(p.CounterpartSuggestion) > 0 {
		return p.CounterpartSuggestion
	}
	return p.Payload
}
