package models

import "time"

type FeedbackDecision string // Рекомендация автора отзыва

const (
	AcceptFeedback    FeedbackDecision = "ACCEPT"
	RejectFeedback    FeedbackDecision = "REJECT"
	InterviewFeedback FeedbackDecision = "INTERVIEW"
	PendingFeedback   FeedbackDecision = "PENDING"
)

// IsValid проверяет, что рекомендация входит в допустимый набор.
func (d FeedbackDecision) IsValid() bool {
	switch d {
	case AcceptFeedback, RejectFeedback, InterviewFeedback, PendingFeedback:
		return true
	default:
		return false
	}
}

// Feedback представляет отзыв по отклику. Отзывы только добавляются и не перезаписываются.
type Feedback struct {
	ID            string           `json:"id"`
	ApplicationID string           `json:"-"`
	Decision      FeedbackDecision `json:"decision"`
	Rating        *int             `json:"rating,omitempty"`
	Comments      string           `json:"comments"`
	AuthorUserID  string           `json:"authorUserId"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// FeedbackRequest представляет структуру запроса для создания отзыва.
type FeedbackRequest struct {
	Decision FeedbackDecision `json:"decision"`
	Rating   *int             `json:"rating,omitempty"`
	Comments string           `json:"comments"`
}
