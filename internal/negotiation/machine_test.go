package negotiation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/senyabanana/recruitment-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interviewPayload(t *testing.T, scheduledAt time.Time) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(models.InterviewPayload{
		ScheduledAt:     scheduledAt,
		InterviewType:   "online",
		Location:        "Zoom",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	return raw
}

func offerPayload(t *testing.T, amount float64, currency string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(models.OfferPayload{Amount: amount, Currency: currency})
	require.NoError(t, err)
	return raw
}

func TestValidatePayload(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid interview", func(t *testing.T) {
		err := ValidatePayload(models.SubjectInterview, interviewPayload(t, now.Add(24*time.Hour)), now)
		assert.NoError(t, err)
	})

	t.Run("interview in the past", func(t *testing.T) {
		err := ValidatePayload(models.SubjectInterview, interviewPayload(t, now.Add(-time.Hour)), now)
		require.Error(t, err)
		assert.Equal(t, models.KindValidation, err.(*models.ErrorResponse).Kind)
	})

	t.Run("interview exactly now is rejected", func(t *testing.T) {
		err := ValidatePayload(models.SubjectInterview, interviewPayload(t, now), now)
		assert.Error(t, err)
	})

	t.Run("valid offer", func(t *testing.T) {
		err := ValidatePayload(models.SubjectOffer, offerPayload(t, 10000, "SAR"), now)
		assert.NoError(t, err)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		err := ValidatePayload(models.SubjectOffer, offerPayload(t, 0, "SAR"), now)
		require.Error(t, err)
		assert.Equal(t, models.KindValidation, err.(*models.ErrorResponse).Kind)
	})

	t.Run("missing currency", func(t *testing.T) {
		err := ValidatePayload(models.SubjectOffer, offerPayload(t, 500, ""), now)
		assert.Error(t, err)
	})

	t.Run("empty payload", func(t *testing.T) {
		err := ValidatePayload(models.SubjectInterview, nil, now)
		assert.Error(t, err)
	})

	t.Run("unknown subject", func(t *testing.T) {
		err := ValidatePayload(models.SubjectType("MEETING"), offerPayload(t, 500, "SAR"), now)
		assert.Error(t, err)
	})
}

func TestNewProposal(t *testing.T) {
	now := time.Now().UTC()

	proposal, err := NewProposal("app-1", models.SubjectInterview, "applicant-1", interviewPayload(t, now.Add(time.Hour)), now)
	require.NoError(t, err)

	assert.NotEmpty(t, proposal.ID)
	assert.Equal(t, models.ProposedProposal, proposal.State)
	assert.Equal(t, models.RoleHR, proposal.OwnerRole)
	assert.Equal(t, models.PendingResponse, proposal.CounterpartResponse)
	assert.Equal(t, models.PendingReview, proposal.OwnerReview)
	assert.Nil(t, proposal.SupersededByID)

	offer, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSales, offer.OwnerRole)

	_, err = NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, -5, "SAR"), now)
	assert.Error(t, err)
}

func TestRespond(t *testing.T) {
	now := time.Now().UTC()

	t.Run("accept", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
		require.NoError(t, err)

		err = Respond(p, "applicant-1", models.DecisionAccept, nil, "", now)
		require.NoError(t, err)
		assert.Equal(t, models.AcceptedProposal, p.State)
		assert.Equal(t, models.AcceptedResponse, p.CounterpartResponse)
		assert.NotNil(t, p.CounterpartRespondedAt)
	})

	t.Run("reject with suggestion", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectInterview, "applicant-1", interviewPayload(t, now.Add(time.Hour)), now)
		require.NoError(t, err)

		suggestion := interviewPayload(t, now.Add(48*time.Hour))
		err = Respond(p, "applicant-1", models.DecisionReject, suggestion, "conflict", now)
		require.NoError(t, err)
		assert.Equal(t, models.CounteredProposal, p.State)
		assert.Equal(t, models.RejectedResponse, p.CounterpartResponse)
		assert.Equal(t, "conflict", p.CounterpartNotes)
		assert.JSONEq(t, string(suggestion), string(p.CounterpartSuggestion))
		assert.Equal(t, models.PendingReview, p.OwnerReview)
	})

	t.Run("reject without suggestion", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
		require.NoError(t, err)

		err = Respond(p, "applicant-1", models.DecisionReject, nil, "too low", now)
		require.NoError(t, err)
		assert.Equal(t, models.CounteredProposal, p.State)
		assert.Empty(t, p.CounterpartSuggestion)
	})

	t.Run("invalid suggestion rejected before mutation", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectInterview, "applicant-1", interviewPayload(t, now.Add(time.Hour)), now)
		require.NoError(t, err)

		err = Respond(p, "applicant-1", models.DecisionReject, interviewPayload(t, now.Add(-time.Hour)), "", now)
		require.Error(t, err)
		assert.Equal(t, models.ProposedProposal, p.State)
		assert.Equal(t, models.PendingResponse, p.CounterpartResponse)
	})

	t.Run("counterpart mismatch", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
		require.NoError(t, err)

		err = Respond(p, "someone-else", models.DecisionAccept, nil, "", now)
		require.Error(t, err)
		assert.Equal(t, models.KindAuthorization, err.(*models.ErrorResponse).Kind)
		assert.Equal(t, models.ProposedProposal, p.State)
	})

	t.Run("double respond returns conflict", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
		require.NoError(t, err)
		require.NoError(t, Respond(p, "applicant-1", models.DecisionAccept, nil, "", now))

		err = Respond(p, "applicant-1", models.DecisionAccept, nil, "", now)
		require.Error(t, err)
		assert.Equal(t, models.KindConflict, err.(*models.ErrorResponse).Kind)
		assert.Equal(t, models.AcceptedProposal, p.State)
	})

	t.Run("invalid decision", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
		require.NoError(t, err)

		err = Respond(p, "applicant-1", models.RespondDecision("MAYBE"), nil, "", now)
		require.Error(t, err)
		assert.Equal(t, models.KindValidation, err.(*models.ErrorResponse).Kind)
	})
}

func TestReview(t *testing.T) {
	now := time.Now().UTC()

	countered := func(t *testing.T, suggestion json.RawMessage) *models.Proposal {
		t.Helper()
		p, err := NewProposal("app-1", models.SubjectInterview, "applicant-1", interviewPayload(t, now.Add(time.Hour)), now)
		require.NoError(t, err)
		require.NoError(t, Respond(p, "applicant-1", models.DecisionReject, suggestion, "conflict", now))
		return p
	}

	t.Run("approve with suggestion finalizes", func(t *testing.T) {
		suggestion := interviewPayload(t, now.Add(48*time.Hour))
		p := countered(t, suggestion)

		spawned, err := Review(p, models.DecisionApprove, nil, "works for us", now)
		require.NoError(t, err)
		assert.Nil(t, spawned)
		assert.Equal(t, models.ResolvedApprovedProposal, p.State)
		assert.Equal(t, models.ApprovedReview, p.OwnerReview)
		assert.NotNil(t, p.OwnerReviewedAt)
		assert.JSONEq(t, string(suggestion), string(EffectivePayload(p)))
	})

	t.Run("stale suggestion cannot be approved", func(t *testing.T) {
		p := countered(t, interviewPayload(t, now.Add(time.Hour)))

		// Решение принимается, когда предложенная кандидатом дата уже прошла.
		_, err := Review(p, models.DecisionApprove, nil, "", now.Add(2*time.Hour))
		require.Error(t, err)
		assert.Equal(t, models.KindValidation, err.(*models.ErrorResponse).Kind)
		assert.Equal(t, models.CounteredProposal, p.State)
		assert.Equal(t, models.PendingReview, p.OwnerReview)
	})

	t.Run("approve without suggestion requires replacement payload", func(t *testing.T) {
		p := countered(t, nil)

		_, err := Review(p, models.DecisionApprove, nil, "", now)
		require.Error(t, err)
		assert.Equal(t, models.KindValidation, err.(*models.ErrorResponse).Kind)
		assert.Equal(t, models.CounteredProposal, p.State)
	})

	t.Run("approve without suggestion supersedes with replacement", func(t *testing.T) {
		p := countered(t, nil)

		replacement := interviewPayload(t, now.Add(72*time.Hour))
		spawned, err := Review(p, models.DecisionApprove, replacement, "", now)
		require.NoError(t, err)
		require.NotNil(t, spawned)
		assert.Equal(t, models.CancelledProposal, p.State)
		require.NotNil(t, p.SupersededByID)
		assert.Equal(t, spawned.ID, *p.SupersededByID)
		assert.Equal(t, models.ProposedProposal, spawned.State)
		assert.JSONEq(t, string(replacement), string(spawned.Payload))
	})

	t.Run("reject without counter ends negotiation", func(t *testing.T) {
		p := countered(t, interviewPayload(t, now.Add(48*time.Hour)))

		spawned, err := Review(p, models.DecisionDecline, nil, "no availability", now)
		require.NoError(t, err)
		assert.Nil(t, spawned)
		assert.Equal(t, models.ResolvedRejectedProposal, p.State)
		assert.Equal(t, models.RejectedReview, p.OwnerReview)
		assert.Nil(t, p.SupersededByID)
	})

	t.Run("reject with counter spawns a new proposal", func(t *testing.T) {
		p := countered(t, nil)

		counter := interviewPayload(t, now.Add(96*time.Hour))
		spawned, err := Review(p, models.DecisionDecline, counter, "", now)
		require.NoError(t, err)
		require.NotNil(t, spawned)
		assert.Equal(t, models.ResolvedRejectedProposal, p.State)
		require.NotNil(t, p.SupersededByID)
		assert.Equal(t, spawned.ID, *p.SupersededByID)
		assert.Equal(t, models.ProposedProposal, spawned.State)
		assert.Equal(t, p.ApplicationID, spawned.ApplicationID)
		assert.Equal(t, p.SubjectType, spawned.SubjectType)
		assert.Equal(t, p.CounterpartID, spawned.CounterpartID)
	})

	t.Run("invalid counter payload leaves proposal untouched", func(t *testing.T) {
		p := countered(t, nil)

		_, err := Review(p, models.DecisionDecline, interviewPayload(t, now.Add(-time.Hour)), "", now)
		require.Error(t, err)
		assert.Equal(t, models.CounteredProposal, p.State)
		assert.Equal(t, models.PendingReview, p.OwnerReview)
	})

	t.Run("review before counter is a conflict", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
		require.NoError(t, err)

		_, err = Review(p, models.DecisionApprove, nil, "", now)
		require.Error(t, err)
		assert.Equal(t, models.KindConflict, err.(*models.ErrorResponse).Kind)
	})

	t.Run("review on terminal proposal is a conflict", func(t *testing.T) {
		p := countered(t, interviewPayload(t, now.Add(48*time.Hour)))
		_, err := Review(p, models.DecisionApprove, nil, "", now)
		require.NoError(t, err)

		before := *p
		_, err = Review(p, models.DecisionDecline, nil, "", now)
		require.Error(t, err)
		assert.Equal(t, models.KindConflict, err.(*models.ErrorResponse).Kind)
		assert.Equal(t, before, *p)
	})
}

func TestCancelAndSupersede(t *testing.T) {
	now := time.Now().UTC()

	t.Run("cancel non-terminal", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
		require.NoError(t, err)

		require.NoError(t, Cancel(p))
		assert.Equal(t, models.CancelledProposal, p.State)
	})

	t.Run("cancel terminal is a conflict", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
		require.NoError(t, err)
		require.NoError(t, Respond(p, "applicant-1", models.DecisionAccept, nil, "", now))

		err = Cancel(p)
		require.Error(t, err)
		assert.Equal(t, models.KindConflict, err.(*models.ErrorResponse).Kind)
		assert.Equal(t, models.AcceptedProposal, p.State)
	})

	t.Run("supersede marks replacement", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
		require.NoError(t, err)

		require.NoError(t, Supersede(p, "new-id"))
		assert.Equal(t, models.CancelledProposal, p.State)
		require.NotNil(t, p.SupersededByID)
		assert.Equal(t, "new-id", *p.SupersededByID)
	})

	t.Run("supersede terminal is a conflict", func(t *testing.T) {
		p, err := NewProposal("app-1", models.SubjectOffer, "applicant-1", offerPayload(t, 10000, "SAR"), now)
		require.NoError(t, err)
		require.NoError(t, Cancel(p))

		assert.Error(t, Supersede(p, "new-id"))
	})
}

// Полный сценарий переговоров по интервью: предложение, встречная дата,
// утверждение владельцем, итоговая нагрузка - дата кандидата.
func TestInterviewRoundTrip(t *testing.T) {
	now := time.Now().UTC()
	t1 := now.Add(24 * time.Hour)
	t2 := now.Add(72 * time.Hour)

	p, err := NewProposal("app-1", models.SubjectInterview, "applicant-1", interviewPayload(t, t1), now)
	require.NoError(t, err)
	assert.Equal(t, models.ProposedProposal, p.State)

	suggestion := interviewPayload(t, t2)
	require.NoError(t, Respond(p, "applicant-1", models.DecisionReject, suggestion, "conflict", now))
	assert.Equal(t, models.CounteredProposal, p.State)

	spawned, err := Review(p, models.DecisionApprove, nil, "", now)
	require.NoError(t, err)
	assert.Nil(t, spawned)
	assert.Equal(t, models.ResolvedApprovedProposal, p.State)

	var effective models.InterviewPayload
	require.NoError(t, json.Unmarshal(EffectivePayload(p), &effective))
	assert.True(t, effective.ScheduledAt.Equal(t2))
}
