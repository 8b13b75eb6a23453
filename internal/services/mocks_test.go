package services

import (
	"context"
	"time"

	"github.com/senyabanana/recruitment-service/internal/db"
	"github.com/senyabanana/recruitment-service/internal/models"
	"github.com/senyabanana/recruitment-service/internal/notifier"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// fakeRunner выполняет функцию без настоящей транзакции: атомарность
// обеспечивает Postgres, тут проверяется только оркестрация.
type fakeRunner struct {
	adapter *db.Adapter
}

func (f *fakeRunner) WithinTx(ctx context.Context, fn func(adapter *db.Adapter) error) error {
	return fn(f.adapter)
}

type mockEmployeeRepo struct {
	employees map[string]*models.Employee
	jobs      map[string]bool
}

func (m *mockEmployeeRepo) GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	employee, ok := m.employees[employeeID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *employee
	return &copied, nil
}

func (m *mockEmployeeRepo) CheckJobExists(ctx context.Context, jobID string) (bool, error) {
	return m.jobs[jobID], nil
}

type mockApplicationRepo struct {
	apps map[string]*models.JobApplication
}

func (m *mockApplicationRepo) CreateApplication(ctx context.Context, appReq models.ApplicationRequest) (*models.JobApplication, error) {
	now := time.Now().UTC()
	app := &models.JobApplication{
		ID:          uuid.New().String(),
		JobID:       appReq.JobID,
		ApplicantID: appReq.ApplicantID,
		Status:      models.PendingApplication,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.apps[app.ID] = app
	copied := *app
	return &copied, nil
}

func (m *mockApplicationRepo) GetApplication(ctx context.Context, applicationID string) (*models.JobApplication, error) {
	app, ok := m.apps[applicationID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *app
	return &copied, nil
}

func (m *mockApplicationRepo) GetApplicationForUpdate(ctx context.Context, applicationID string) (*models.JobApplication, error) {
	return m.GetApplication(ctx, applicationID)
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) error {
	app, ok := m.apps[applicationID]
	if !ok {
		return pgx.ErrNoRows
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	return nil
}

type mockProposalRepo struct {
	proposals map[string]*models.Proposal
}

func (m *mockProposalRepo) CreateProposal(ctx context.Context, p *models.Proposal) error {
	copied := *p
	m.proposals[p.ID] = &copied
	return nil
}

func (m *mockProposalRepo) GetProposal(ctx context.Context, proposalID string) (*models.Proposal, error) {
	p, ok := m.proposals[proposalID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (m *mockProposalRepo) GetProposalForUpdate(ctx context.Context, proposalID string) (*models.Proposal, error) {
	return m.GetProposal(ctx, proposalID)
}

func (m *mockProposalRepo) GetActiveProposals(ctx context.Context, applicationID string, subject models.SubjectType) ([]models.Proposal, error) {
	var active []models.Proposal
	for _, p := range m.proposals {
		if p.ApplicationID == applicationID && p.SubjectType == subject && !p.State.IsTerminal() {
			active = append(active, *p)
		}
	}
	return active, nil
}

func (m *mockProposalRepo) UpdateProposal(ctx context.Context, p *models.Proposal) error {
	if _, ok := m.proposals[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *p
	m.proposals[p.ID] = &copied
	return nil
}

func (m *mockProposalRepo) ListProposals(ctx context.Context, applicationID string, limit, offset int) ([]models.Proposal, error) {
	var proposals []models.Proposal
	for _, p := range m.proposals {
		if p.ApplicationID == applicationID {
			proposals = append(proposals, *p)
		}
	}
	return proposals, nil
}

type mockTimelineRepo struct {
	entries   []models.TimelineEntry
	appendErr error
}

func (m *mockTimelineRepo) AppendEntry(ctx context.Context, entry models.TimelineEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockTimelineRepo) GetTimeline(ctx context.Context, applicationID string, limit, offset int) ([]models.TimelineEntry, error) {
	var entries []models.TimelineEntry
	for _, entry := range m.entries {
		if entry.ApplicationID == applicationID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type mockFeedbackRepo struct {
	feedbacks []models.Feedback
}

func (m *mockFeedbackRepo) CreateFeedback(ctx context.Context, feedback models.Feedback) error {
	m.feedbacks = append(m.feedbacks, feedback)
	return nil
}

func (m *mockFeedbackRepo) GetFeedback(ctx context.Context, applicationID string, limit, offset int) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	for _, feedback := range m.feedbacks {
		if feedback.ApplicationID == applicationID {
			feedbacks = append(feedbacks, feedback)
		}
	}
	return feedbacks, nil
}

type mockNotifier struct {
	events []notifier.Event
}

func (m *mockNotifier) Enqueue(event notifier.Event) {
	m.events = append(m.events, event)
}

// fixture собирает оба сервиса на моках с общим состоянием.
type fixture struct {
	employees *mockEmployeeRepo
	apps      *mockApplicationRepo
	proposals *mockProposalRepo
	timeline  *mockTimelineRepo
	feedback  *mockFeedbackRepo
	notifier  *mockNotifier

	negotiation *NegotiationService
	application *ApplicationService
}

const (
	hrID        = "hr-1"
	salesID     = "sales-1"
	applicantID = "applicant-1"
	jobID       = "job-1"
	appID       = "app-1"
)

func newFixture() *fixture {
	f := &fixture{
		employees: &mockEmployeeRepo{
			employees: map[string]*models.Employee{
				hrID:        {ID: hrID, Username: "maria", Role: models.RoleHR},
				salesID:     {ID: salesID, Username: "oleg", Role: models.RoleSales},
				applicantID: {ID: applicantID, Username: "dmitry", Role: models.RoleApplicant},
			},
			jobs: map[string]bool{jobID: true},
		},
		apps: &mockApplicationRepo{
			apps: map[string]*models.JobApplication{
				appID: {
					ID:          appID,
					JobID:       jobID,
					ApplicantID: applicantID,
					Status:      models.PendingApplication,
					CreatedAt:   time.Now().UTC(),
					UpdatedAt:   time.Now().UTC(),
				},
			},
		},
		proposals: &mockProposalRepo{proposals: map[string]*models.Proposal{}},
		timeline:  &mockTimelineRepo{},
		feedback:  &mockFeedbackRepo{},
		notifier:  &mockNotifier{},
	}

	runner := &fakeRunner{adapter: &db.Adapter{
		Applications: f.apps,
		Proposals:    f.proposals,
		Timeline:     f.timeline,
		Feedback:     f.feedback,
		Employees:    f.employees,
	}}
	logger := zap.NewNop().Sugar()

	f.negotiation = NewNegotiationService(runner, f.proposals, f.notifier, logger)
	f.application = NewApplicationService(runner, f.apps, f.timeline, f.feedback, f.employees, f.notifier, logger)
	return f
}
