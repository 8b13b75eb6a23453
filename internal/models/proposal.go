package models

import (
	"encoding/json"
	"time"
)

type (
	SubjectType         string // Предмет переговоров
	ProposalState       string // Состояние предложения
	CounterpartResponse string // Ответ кандидата на предложение
	OwnerReview         string // Решение владельца по встречному предложению
	RespondDecision     string // Решение кандидата в запросе
	ReviewDecision      string // Решение владельца в запросе
)

const (
	SubjectInterview SubjectType = "INTERVIEW" // Слот интервью
	SubjectOffer     SubjectType = "OFFER"     // Зарплатный оффер

	ProposedProposal         ProposalState = "PROPOSED"          // Предложение отправлено кандидату
	AcceptedProposal         ProposalState = "ACCEPTED"          // Кандидат принял предложение
	CounteredProposal        ProposalState = "COUNTERED"         // Кандидат отклонил и ждет решения владельца
	ResolvedApprovedProposal ProposalState = "RESOLVED_APPROVED" // Владелец утвердил встречное предложение
	ResolvedRejectedProposal ProposalState = "RESOLVED_REJECTED" // Владелец отклонил встречное предложение
	CancelledProposal        ProposalState = "CANCELLED"         // Предложение отменено или заменено новым

	PendingResponse  CounterpartResponse = "PENDING"
	AcceptedResponse CounterpartResponse = "ACCEPTED"
	RejectedResponse CounterpartResponse = "REJECTED"

	PendingReview  OwnerReview = "PENDING"
	ApprovedReview OwnerReview = "APPROVED"
	RejectedReview OwnerReview = "REJECTED"

	DecisionAccept RespondDecision = "ACCEPT"
	DecisionReject RespondDecision = "REJECT"

	DecisionApprove ReviewDecision = "APPROVED"
	DecisionDecline ReviewDecision = "REJECTED"
)

// IsValid проверяет, что предмет переговоров входит в допустимый набор.
func (s SubjectType) IsValid() bool {
	return s == SubjectInterview || s == SubjectOffer
}

// OwnerRole возвращает роль, которая создает и рассматривает предложения этого типа.
func (s SubjectType) OwnerRole() Role {
	if s == SubjectOffer {
		return RoleSales
	}
	return RoleHR
}

// IsTerminal проверяет, что состояние предложения финальное и больше не меняется.
func (s ProposalState) IsTerminal() bool {
	switch s {
	case AcceptedProposal, ResolvedApprovedProposal, ResolvedRejectedProposal, CancelledProposal:
		return true
	default:
		return false
	}
}

// Proposal представляет модель предложения: слот интервью или оффер.
// Для пары (applicationId, subjectType) активным может быть не больше одного предложения.
type Proposal struct {
	ID                     string              `json:"id"`
	ApplicationID          string              `json:"applicationId"`
	SubjectType            SubjectType         `json:"subjectType"`
	OwnerRole              Role                `json:"ownerRole"`
	CounterpartID          string              `json:"counterpartId"`
	Payload                json.RawMessage     `json:"payload"`
	State                  ProposalState       `json:"state"`
	CounterpartResponse    CounterpartResponse `json:"counterpartResponse"`
	CounterpartSuggestion  json.RawMessage     `json:"counterpartSuggestion,omitempty"`
	CounterpartNotes       string              `json:"counterpartNotes,omitempty"`
	CounterpartRespondedAt *time.Time          `json:"counterpartRespondedAt,omitempty"`
	OwnerReview            OwnerReview         `json:"ownerReview"`
	OwnerReviewNotes       string              `json:"ownerReviewNotes,omitempty"`
	OwnerReviewedAt        *time.Time          `json:"ownerReviewedAt,omitempty"`
	SupersededByID         *string             `json:"supersededById,omitempty"`
	CreatedAt              time.Time           `json:"createdAt"`
}

// InterviewPayload представляет параметры слота интервью.
type InterviewPayload struct {
	ScheduledAt     time.Time `json:"scheduledAt"`
	InterviewType   string    `json:"type"`
	Location        string    `json:"location"`
	DurationMinutes int       `json:"durationMinutes"`
}

// OfferPayload представляет параметры оффера.
type OfferPayload struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ProposalRequest представляет структуру запроса для создания предложения.
type ProposalRequest struct {
	ApplicationID string          `json:"applicationId"`
	SubjectType   SubjectType     `json:"subjectType"`
	Payload       json.RawMessage `json:"payload"`
}

// RespondRequest представляет структуру запроса с ответом кандидата.
type RespondRequest struct {
	Decision   RespondDecision `json:"decision"`
	Suggestion json.RawMessage `json:"suggestion,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// ReviewRequest представляет структуру запроса с решением владельца.
type ReviewRequest struct {
	Decision   ReviewDecision  `json:"decision"`
	NewPayload json.RawMessage `json:"newPayload,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}
