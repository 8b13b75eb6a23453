package models

import (
	"fmt"
	"time"
)

// TimelineEntry представляет запись в журнале истории отклика.
// Журнал append-only: записи никогда не изменяются и не удаляются.
type TimelineEntry struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Status        string    `json:"status"`
	ActorUserID   string    `json:"actorUserId"`
	ActorRole     Role      `json:"actorRole"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NegotiationTag строит метку события переговоров для журнала,
// например INTERVIEW_PROPOSED или OFFER_COUNTERED.
func NegotiationTag(subject SubjectType, action string) string {
	return fmt.Sprintf("%s_%s", subject, action)
}
