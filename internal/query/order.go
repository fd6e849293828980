package query

import (
	"sort"

	"github.com/urjaconsultants/lead-pipeline/internal/ingest"
	"github.com/urjaconsultants/lead-pipeline/internal/model"
)

// SortArchive orders leads for the archive view, in place and stably:
// deleted leads first, then done leads, then most recent activity first.
// Leads whose lastActivityDate is missing or unparsable sort as oldest.
func SortArchive(leads []model.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		a, b := leads[i], leads[j]

		if a.IsDeleted != b.IsDeleted {
			return a.IsDeleted
		}
		if a.IsDone != b.IsDone {
			return a.IsDone
		}

		at, aok := ingest.ParseCanonicalDate(a.LastActivityDate)
		bt, bok := ingest.ParseCanonicalDate(b.LastActivityDate)
		if aok != bok {
			return aok
		}
		if !aok {
			return false
		}
		return at.After(bt)
	})
}
