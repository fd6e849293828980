package ingest

import (
	"strings"

	"github.com/urjaconsultants/lead-pipeline/internal/model"
)

// statusSynonyms maps known non-canonical spellings to enumeration labels.
// Consulted only when exact matching finds nothing.
var statusSynonyms = map[string]model.LeadStatus{
	"follow up":         model.StatusFollowUp,
	"followup":          model.StatusFollowUp,
	"follow-up call":    model.StatusFollowUp,
	"hot lead":          model.StatusHotlead,
	"hot-lead":          model.StatusHotlead,
	"deal closed":       model.StatusDealClose,
	"closed":            model.StatusDealClose,
	"work allotted":     model.StatusWorkAlloted,
	"call not received": model.StatusCNR,
	"did not pick":      model.StatusCNR,
}

// statusHeuristics is the substring fallback, evaluated strictly in this
// order. The order is a contract: overlapping keywords ("mandate sent &
// documentation", "deal close" vs a bare "close") must resolve the same
// way on every import, so mandate/sent is checked before document, and
// deal/close before the generic close. Reordering these entries changes
// import outcomes.
var statusHeuristics = []struct {
	needles []string
	status  model.LeadStatus
}{
	{[]string{"mandate", "sent"}, model.StatusMandateSent},
	{[]string{"document"}, model.StatusDocumentation},
	{[]string{"deal", "close"}, model.StatusDealClose},
	{[]string{"work", "allot"}, model.StatusWorkAlloted},
	{[]string{"hot"}, model.StatusHotlead},
	{[]string{"follow"}, model.StatusFollowUp},
	{[]string{"cnr", "not reachable", "no response"}, model.StatusCNR},
	{[]string{"busy"}, model.StatusBusy},
}

// CanonicalStatus maps arbitrary status text to one label of the fixed
// status enumeration, defaulting to New. Stages run in order and each is
// only consulted when the prior stage found no match:
//  1. exact case-insensitive match against enumeration labels
//  2. the synonym table, plus "mandate sent" / "documentation" variants
//  3. the substring heuristics above, in their fixed priority order
//  4. New
func CanonicalStatus(raw string) model.LeadStatus {
	text := strings.TrimSpace(raw)
	if text == "" {
		return model.StatusNew
	}
	lowered := strings.ToLower(text)

	// Stage 1: exact labels.
	for _, s := range model.AllLeadStatuses() {
		if strings.EqualFold(text, string(s)) {
			return s
		}
	}

	// Stage 2: known synonyms.
	if s, ok := statusSynonyms[lowered]; ok {
		return s
	}
	if strings.Contains(lowered, "mandate sent") {
		return model.StatusMandateSent
	}
	if strings.Contains(lowered, "documentation") {
		return model.StatusDocumentation
	}

	// Stage 3: substring heuristics in priority order.
	for _, h := range statusHeuristics {
		for _, needle := range h.needles {
			if strings.Contains(lowered, needle) {
				return h.status
			}
		}
	}

	// Stage 4: default.
	return model.StatusNew
}
