package model

// LeadFilters is a query specification evaluated by the filter engine.
// It is constructed per view and never persisted.
type LeadFilters struct {
	// Status restricts results to leads whose status is a member. A nil or
	// empty set means "no explicit status filter", which switches the
	// engine to default-view visibility rules.
	Status []LeadStatus `json:"status,omitempty"`

	// FollowUpDateStart and FollowUpDateEnd bound the follow-up date range,
	// inclusive, as canonical DD-MM-YYYY strings.
	FollowUpDateStart string `json:"followUpDateStart,omitempty"`
	FollowUpDateEnd   string `json:"followUpDateEnd,omitempty"`

	SearchTerm string `json:"searchTerm,omitempty"`
	Discom     string `json:"discom,omitempty"`
}

// HasStatus reports whether an explicit status set was given.
func (f LeadFilters) HasStatus() bool {
	return len(f.Status) > 0
}

// StatusContains reports membership of s in the explicit status set.
func (f LeadFilters) StatusContains(s LeadStatus) bool {
	for _, want := range f.Status {
		if want == s {
			return true
		}
	}
	return false
}
