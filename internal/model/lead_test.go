package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadStatus_IsValid(t *testing.T) {
	for _, status := range AllLeadStatuses() {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, LeadStatus("hot lead").IsValid(), "free text is not a status")
	assert.False(t, LeadStatus("").IsValid())
	assert.False(t, LeadStatus("new").IsValid(), "membership is case-sensitive")
}

func TestMainMobile_PrefersFlaggedEntry(t *testing.T) {
	lead := Lead{
		MobileNumbers: []MobileNumber{
			{Number: "1111111111", Name: "First"},
			{Number: "2222222222", Name: "Second", IsMain: true},
		},
	}
	assert.Equal(t, "2222222222", lead.MainMobile().Number)
}

func TestMainMobile_FallsBackToFirstNonEmpty(t *testing.T) {
	lead := Lead{
		MobileNumbers: []MobileNumber{
			{},
			{Number: "2222222222", Name: "Second"},
		},
	}
	assert.Equal(t, "2222222222", lead.MainMobile().Number)

	empty := Lead{}
	assert.True(t, empty.MainMobile().IsEmpty())
}

func TestMainMobile_IgnoresEmptyFlaggedSlot(t *testing.T) {
	// A slot can carry IsMain from a cleared contact; it must not win.
	lead := Lead{
		MobileNumbers: []MobileNumber{
			{IsMain: true},
			{Number: "2222222222"},
		},
	}
	assert.Equal(t, "2222222222", lead.MainMobile().Number)
}

func TestNormalizeContacts_SingleMainFlag(t *testing.T) {
	lead := Lead{
		MobileNumbers: []MobileNumber{
			{Number: "1111111111", IsMain: true},
			{Number: "2222222222", IsMain: true},
			{Number: "3333333333", IsMain: true},
		},
	}
	lead.NormalizeContacts()

	assert.True(t, lead.MobileNumbers[0].IsMain)
	assert.False(t, lead.MobileNumbers[1].IsMain)
	assert.False(t, lead.MobileNumbers[2].IsMain)
}

func TestNormalizeContacts_ClearsFlagOnEmptySlot(t *testing.T) {
	lead := Lead{
		MobileNumbers: []MobileNumber{
			{IsMain: true},
			{Number: "2222222222", IsMain: true},
		},
	}
	lead.NormalizeContacts()

	assert.False(t, lead.MobileNumbers[0].IsMain)
	assert.True(t, lead.MobileNumbers[1].IsMain, "first non-empty flagged slot keeps the flag")
}

func TestSyncMobileMirror(t *testing.T) {
	lead := Lead{
		MobileNumber: "stale",
		MobileNumbers: []MobileNumber{
			{Number: "9876543210", IsMain: true},
		},
	}
	lead.SyncMobileMirror()
	assert.Equal(t, "9876543210", lead.MobileNumber)

	lead.MobileNumbers = nil
	lead.SyncMobileMirror()
	assert.Empty(t, lead.MobileNumber)
}

func TestAddActivity_AppendsInOrder(t *testing.T) {
	lead := Lead{ID: "lead-1"}
	first := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	lead.AddActivity("Called client", first)
	lead.AddActivity("Sent mandate", second)

	require.Len(t, lead.Activities, 2)
	assert.Equal(t, "Called client", lead.Activities[0].Description)
	assert.Equal(t, "Sent mandate", lead.Activities[1].Description)
	assert.Equal(t, "lead-1", lead.Activities[0].LeadID)
	assert.NotEqual(t, lead.Activities[0].ID, lead.Activities[1].ID)
}

func TestNewLead_Factory(t *testing.T) {
	lead := NewLead()
	assert.NotEmpty(t, lead.ID)
	assert.NotEmpty(t, lead.ConsumerNumber)
	assert.True(t, lead.Status.IsValid())
	assert.Len(t, lead.MobileNumbers, MaxMobileNumbers)
	assert.Equal(t, lead.MainMobile().Number, lead.MobileNumber, "mirror starts in sync")

	pinned := NewLead(&Lead{Status: StatusHotlead, Discom: "PGVCL", IsDone: true})
	assert.Equal(t, StatusHotlead, pinned.Status)
	assert.Equal(t, "PGVCL", pinned.Discom)
	assert.True(t, pinned.IsDone)
	assert.NotEmpty(t, pinned.Company, "unpinned fields stay populated")
}
