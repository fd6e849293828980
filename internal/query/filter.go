// Package query implements the in-memory filter engine that every list
// surface goes through. Filtering is pure: it never mutates the input
// slice and has no persistence side effects.
package query

import (
	"strings"
	"time"

	"github.com/urjaconsultants/lead-pipeline/internal/ingest"
	"github.com/urjaconsultants/lead-pipeline/internal/model"
	"github.com/urjaconsultants/lead-pipeline/internal/observer"
	"github.com/urjaconsultants/lead-pipeline/pkg/utils"
)

// View selects which visibility policy applies on top of the field filters.
type View string

const (
	// ViewGeneric hides deleted leads always and done leads when no
	// explicit status filter is set.
	ViewGeneric View = "generic"
	// ViewFeed is the default working list. On top of the generic policy
	// it also suppresses updated leads, so the feed shows fresh items
	// only. An explicit status filter lifts everything but the deleted
	// exclusion.
	ViewFeed View = "feed"
	// ViewArchive shows everything, including deleted leads, ordered by
	// the archive comparator.
	ViewArchive View = "archive"
)

// Filter evaluates the filters against leads under the given view's
// visibility policy and returns the matching leads in a new slice.
// Archive results are additionally sorted by the archive ordering.
func Filter(leads []model.Lead, filters model.LeadFilters, view View) []model.Lead {
	start := time.Now()

	matched := make([]model.Lead, 0, len(leads))
	for _, lead := range leads {
		if !visible(lead, filters, view) {
			continue
		}
		if !Matches(lead, filters) {
			continue
		}
		matched = append(matched, lead)
	}

	if view == ViewArchive {
		SortArchive(matched)
	}

	observer.ObserveFilterEvaluation(string(view), len(matched), time.Since(start))
	return matched
}

func visible(lead model.Lead, filters model.LeadFilters, view View) bool {
	if view == ViewArchive {
		return true
	}
	if lead.IsDeleted {
		return false
	}
	// An explicit status filter surfaces done and updated leads.
	if filters.HasStatus() {
		return true
	}
	if lead.IsDone {
		return false
	}
	// The updated suppression is feed-specific fresh-items semantics.
	return view != ViewFeed || !lead.IsUpdated
}

// Matches evaluates the field filters only, with no visibility policy.
func Matches(lead model.Lead, filters model.LeadFilters) bool {
	if filters.HasStatus() && !filters.StatusContains(lead.Status) {
		return false
	}
	if filters.Discom != "" && !strings.EqualFold(strings.TrimSpace(filters.Discom), strings.TrimSpace(lead.Discom)) {
		return false
	}
	if !matchesFollowUpRange(lead.FollowUpDate, filters.FollowUpDateStart, filters.FollowUpDateEnd) {
		return false
	}
	if filters.SearchTerm != "" && !matchesSearch(lead, filters.SearchTerm) {
		return false
	}
	return true
}

// matchesFollowUpRange compares canonical DD-MM-YYYY dates chronologically.
// A lead whose follow-up date is missing or malformed never matches a
// bounded range.
func matchesFollowUpRange(followUp, startStr, endStr string) bool {
	if startStr == "" && endStr == "" {
		return true
	}
	date, ok := ingest.ParseCanonicalDate(followUp)
	if !ok {
		return false
	}
	if startStr != "" {
		start, ok := ingest.ParseCanonicalDate(startStr)
		if !ok || date.Before(start) {
			return false
		}
	}
	if endStr != "" {
		end, ok := ingest.ParseCanonicalDate(endStr)
		if !ok || date.After(end) {
			return false
		}
	}
	return true
}

// matchesSearch checks the term against every searchable text field. A
// term that is all digits is additionally compared against the digits of
// each phone slot, so formatted numbers still match.
func matchesSearch(lead model.Lead, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}

	haystacks := []string{
		lead.ClientName,
		lead.Company,
		lead.ConsumerNumber,
		lead.KVA,
		lead.Discom,
		lead.CompanyLocation,
		lead.Notes,
		lead.FinalConclusion,
	}
	for _, mobile := range lead.MobileNumbers {
		haystacks = append(haystacks, mobile.Number, mobile.Name)
	}
	for _, h := range haystacks {
		if h != "" && strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}

	if utils.IsAllDigits(needle) {
		if lead.MobileNumber != "" && strings.Contains(utils.DigitsOnly(lead.MobileNumber), needle) {
			return true
		}
		for _, mobile := range lead.MobileNumbers {
			if mobile.Number != "" && strings.Contains(utils.DigitsOnly(mobile.Number), needle) {
				return true
			}
		}
	}
	return false
}
