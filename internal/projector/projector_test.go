package projector

import (
	"testing"

	"github.com/senyabanana/recruitment-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance(t *testing.T) {
	t.Run("moves forward along the graph", func(t *testing.T) {
		status, moved, err := Advance(models.PendingApplication, models.ReviewedApplication)
		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, models.ReviewedApplication, status)
	})

	t.Run("skipping intermediate statuses is allowed", func(t *testing.T) {
		status, moved, err := Advance(models.PendingApplication, models.InterviewApplication)
		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, models.InterviewApplication, status)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		status, moved, err := Advance(models.OfferApplication, models.OfferApplication)
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, models.OfferApplication, status)
	})

	t.Run("never moves backward", func(t *testing.T) {
		status, moved, err := Advance(models.InterviewedApplication, models.InterviewApplication)
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, models.InterviewedApplication, status)
	})

	t.Run("terminal status is immutable", func(t *testing.T) {
		_, _, err := Advance(models.RejectedApplication, models.OfferApplication)
		require.Error(t, err)
		assert.Equal(t, models.KindConflict, err.(*models.ErrorResponse).Kind)

		_, _, err = Advance(models.WithdrawnApplication, models.HiredApplication)
		assert.Error(t, err)
	})

	t.Run("terminal target is not a projection", func(t *testing.T) {
		_, _, err := Advance(models.PendingApplication, models.RejectedApplication)
		require.Error(t, err)
		assert.Equal(t, models.KindValidation, err.(*models.ErrorResponse).Kind)
	})
}

// Последовательность статусов по графу не убывает.
func TestAdvanceIsMonotonic(t *testing.T) {
	chain := []models.ApplicationStatus{
		models.PendingApplication,
		models.ReviewedApplication,
		models.ShortlistedApplication,
		models.InterviewApplication,
		models.InterviewedApplication,
		models.OfferApplication,
		models.HiredApplication,
	}

	current := models.PendingApplication
	for _, target := range chain[1:] {
		next, moved, err := Advance(current, target)
		require.NoError(t, err)
		assert.True(t, moved)
		current = next
	}
	assert.Equal(t, models.HiredApplication, current)

	for _, earlier := range chain[:len(chain)-1] {
		status, moved, err := Advance(current, earlier)
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, models.HiredApplication, status)
	}
}

func TestTerminate(t *testing.T) {
	t.Run("reject from any non-terminal status", func(t *testing.T) {
		for _, current := range []models.ApplicationStatus{
			models.PendingApplication,
			models.InterviewApplication,
			models.OfferApplication,
			models.HiredApplication,
		} {
			assert.NoError(t, Terminate(current, models.RejectedApplication), string(current))
		}
	})

	t.Run("withdraw from any non-terminal status", func(t *testing.T) {
		assert.NoError(t, Terminate(models.ShortlistedApplication, models.WithdrawnApplication))
	})

	t.Run("non-terminal target is invalid", func(t *testing.T) {
		err := Terminate(models.PendingApplication, models.OfferApplication)
		require.Error(t, err)
		assert.Equal(t, models.KindValidation, err.(*models.ErrorResponse).Kind)
	})

	t.Run("already terminal is a conflict", func(t *testing.T) {
		err := Terminate(models.RejectedApplication, models.WithdrawnApplication)
		require.Error(t, err)
		assert.Equal(t, models.KindConflict, err.(*models.ErrorResponse).Kind)
	})
}

func TestStatusForOutcome(t *testing.T) {
	assert.Equal(t, models.InterviewApplication, StatusForOutcome(models.SubjectInterview))
	assert.Equal(t, models.OfferApplication, StatusForOutcome(models.SubjectOffer))
}
