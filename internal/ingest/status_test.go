package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/urjaconsultants/lead-pipeline/internal/model"
)

func TestCanonicalStatus_ExactLabels(t *testing.T) {
	for _, s := range model.AllLeadStatuses() {
		assert.Equal(t, s, CanonicalStatus(string(s)))
	}

	// Exact matching is case-insensitive.
	assert.Equal(t, model.StatusFollowUp, CanonicalStatus("FOLLOW-UP"))
	assert.Equal(t, model.StatusDealClose, CanonicalStatus("deal close"))
}

func TestCanonicalStatus_Synonyms(t *testing.T) {
	testCases := []struct {
		raw      string
		expected model.LeadStatus
	}{
		{"follow up", model.StatusFollowUp},
		{"followup", model.StatusFollowUp},
		{"hot lead", model.StatusHotlead},
		{"deal closed", model.StatusDealClose},
		{"work allotted", model.StatusWorkAlloted},
		{"call not received", model.StatusCNR},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.expected, CanonicalStatus(tc.raw))
		})
	}
}

func TestCanonicalStatus_HeuristicPriority(t *testing.T) {
	// "mandate sent" outranks the "documentation" substring.
	assert.Equal(t, model.StatusMandateSent, CanonicalStatus("Mandate Sent & Documentation"))

	// "document" outranks the generic close keywords.
	assert.Equal(t, model.StatusDocumentation, CanonicalStatus("documents pending, will close soon"))

	// Deal keywords outrank work allotment.
	assert.Equal(t, model.StatusDealClose, CanonicalStatus("deal to be closed after work"))
}

func TestCanonicalStatus_HeuristicSubstrings(t *testing.T) {
	testCases := []struct {
		raw      string
		expected model.LeadStatus
	}{
		{"sent mandate yesterday", model.StatusMandateSent},
		{"work will be allotted", model.StatusWorkAlloted},
		{"very hot prospect", model.StatusHotlead},
		{"needs follow next week", model.StatusFollowUp},
		{"customer not reachable", model.StatusCNR},
		{"line busy twice", model.StatusBusy},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.expected, CanonicalStatus(tc.raw))
		})
	}
}

func TestCanonicalStatus_Default(t *testing.T) {
	for _, raw := range []string{"", "   ", "fresh inquiry", "xyz"} {
		assert.Equal(t, model.StatusNew, CanonicalStatus(raw), "input %q", raw)
	}
}
