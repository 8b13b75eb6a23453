package models

import "time"

type (
	ApplicationStatus string // Статус отклика на вакансию
	Role              string // Роль сотрудника или кандидата
)

const (
	PendingApplication     ApplicationStatus = "PENDING"     // Отклик создан
	ReviewedApplication    ApplicationStatus = "REVIEWED"    // Отклик просмотрен
	ShortlistedApplication ApplicationStatus = "SHORTLISTED" // Кандидат прошел отбор
	InterviewApplication   ApplicationStatus = "INTERVIEW"   // Интервью согласовано
	InterviewedApplication ApplicationStatus = "INTERVIEWED" // Интервью проведено
	OfferApplication       ApplicationStatus = "OFFER"       // Оффер согласован
	HiredApplication       ApplicationStatus = "HIRED"       // Кандидат нанят
	RejectedApplication    ApplicationStatus = "REJECTED"    // Отклик отклонен
	WithdrawnApplication   ApplicationStatus = "WITHDRAWN"   // Кандидат отозвал отклик

	RoleHR        Role = "HR"        // Отвечает за интервью
	RoleSales     Role = "SALES"     // Отвечает за офферы
	RoleApplicant Role = "APPLICANT" // Кандидат
)

// IsValid проверяет, что статус отклика входит в допустимый набор.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case PendingApplication, ReviewedApplication, ShortlistedApplication,
		InterviewApplication, InterviewedApplication, OfferApplication,
		HiredApplication, RejectedApplication, WithdrawnApplication:
		return true
	default:
		return false
	}
}

// IsTerminal проверяет, что статус является поглощающим (REJECTED/WITHDRAWN).
func (s ApplicationStatus) IsTerminal() bool {
	return s == RejectedApplication || s == WithdrawnApplication
}

// IsValid проверяет, что роль входит в допустимый набор.
func (r Role) IsValid() bool {
	switch r {
	case RoleHR, RoleSales, RoleApplicant:
		return true
	default:
		return false
	}
}

// JobApplication представляет модель отклика на вакансию.
// Статус меняется только проектором и терминальными действиями, UI его не задает.
type JobApplication struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	ApplicantID string            `json:"applicantId"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ApplicationRequest представляет структуру запроса для создания отклика.
type ApplicationRequest struct {
	JobID       string `json:"jobId"`
	ApplicantID string `json:"applicantId"`
}

// Employee представляет модель сотрудника или кандидата.
type Employee struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Job представляет модель вакансии.
type Job struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
}
