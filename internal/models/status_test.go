package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatus(t *testing.T) {
	valid := []ApplicationStatus{
		PendingApplication, ReviewedApplication, ShortlistedApplication,
		InterviewApplication, InterviewedApplication, OfferApplication,
		HiredApplication, RejectedApplication, WithdrawnApplication,
	}
	for _, status := range valid {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, ApplicationStatus("ARCHIVED").IsValid())

	assert.True(t, RejectedApplication.IsTerminal())
	assert.True(t, WithdrawnApplication.IsTerminal())
	assert.False(t, HiredApplication.IsTerminal())
}

func TestProposalStateIsTerminal(t *testing.T) {
	terminal := []ProposalState{
		AcceptedProposal, ResolvedApprovedProposal, ResolvedRejectedProposal, CancelledProposal,
	}
	for _, state := range terminal {
		assert.True(t, state.IsTerminal(), string(state))
	}
	assert.False(t, ProposedProposal.IsTerminal())
	assert.False(t, CounteredProposal.IsTerminal())
}

func TestSubjectTypeOwnerRole(t *testing.T) {
	assert.Equal(t, RoleHR, SubjectInterview.OwnerRole())
	assert.Equal(t, RoleSales, SubjectOffer.OwnerRole())

	assert.True(t, SubjectInterview.IsValid())
	assert.True(t, SubjectOffer.IsValid())
	assert.False(t, SubjectType("MEETING").IsValid())
}

func TestNegotiationTag(t *testing.T) {
	assert.Equal(t, "INTERVIEW_PROPOSED", NegotiationTag(SubjectInterview, "PROPOSED"))
	assert.Equal(t, "OFFER_COUNTERED", NegotiationTag(SubjectOffer, "COUNTERED"))
}
