package ingest

import "strings"

// CanonicalField is a normalized column identifier used across all import
// sources. Headers that classify to no field are ignored downstream.
type CanonicalField string

const (
	FieldKVA             CanonicalField = "kva"
	FieldConsumerNumber  CanonicalField = "consumer_number"
	FieldCompany         CanonicalField = "company"
	FieldClientName      CanonicalField = "client_name"
	FieldDiscom          CanonicalField = "discom"
	FieldGIDC            CanonicalField = "gidc"
	FieldGSTNumber       CanonicalField = "gst_number"
	FieldCompanyLocation CanonicalField = "company_location"
	FieldUnitType        CanonicalField = "unit_type"
	FieldMobile          CanonicalField = "mobile"
	FieldMobile2         CanonicalField = "mobile_2"
	FieldContactName2    CanonicalField = "contact_name_2"
	FieldMobile3         CanonicalField = "mobile_3"
	FieldContactName3    CanonicalField = "contact_name_3"
	FieldStatus          CanonicalField = "status"
	FieldMandateStatus   CanonicalField = "mandate_status"
	FieldDocumentStatus  CanonicalField = "document_status"
	FieldConnectionDate  CanonicalField = "connection_date"
	FieldFollowUpDate    CanonicalField = "follow_up_date"
	FieldNotes           CanonicalField = "notes"
	FieldFinalConclusion CanonicalField = "final_conclusion"
)

// substringRules are checked before the exact alias table and short-circuit
// it. Discom header spellings vary too widely for an exact table ("Discom
// Name", "DISCOM (South)", ...), so any header containing the word wins
// regardless of other conventional matches.
var substringRules = []struct {
	needle string
	field  CanonicalField
}{
	{"discom", FieldDiscom},
	{"gstin", FieldGSTNumber},
}

// headerAliases maps lowercase, trimmed header spellings to canonical
// fields. When multiple raw headers mean the same thing, they all map here.
var headerAliases = map[string]CanonicalField{
	// Consumer number
	"con.no":          FieldConsumerNumber,
	"con no":          FieldConsumerNumber,
	"con. no":         FieldConsumerNumber,
	"con. no.":        FieldConsumerNumber,
	"consumer number": FieldConsumerNumber,
	"consumer no":     FieldConsumerNumber,
	"consumer no.":    FieldConsumerNumber,
	"cons no":         FieldConsumerNumber,

	// KVA
	"kva":        FieldKVA,
	"k.v.a":      FieldKVA,
	"kva load":   FieldKVA,
	"load (kva)": FieldKVA,

	// Connection date
	"connection date":    FieldConnectionDate,
	"conn date":          FieldConnectionDate,
	"date of connection": FieldConnectionDate,

	// Company
	"company name": FieldCompany,
	"company":      FieldCompany,
	"firm name":    FieldCompany,

	// Client name
	"client name":    FieldClientName,
	"client":         FieldClientName,
	"name":           FieldClientName,
	"contact person": FieldClientName,

	// GIDC
	"gidc":          FieldGIDC,
	"gidc location": FieldGIDC,
	"gidc area":     FieldGIDC,

	// GST
	"gst number": FieldGSTNumber,
	"gst no":     FieldGSTNumber,
	"gst no.":    FieldGSTNumber,
	"gst":        FieldGSTNumber,

	// Primary mobile / contact cell
	"main mobile number": FieldMobile,
	"mobile number":      FieldMobile,
	"mobile no":          FieldMobile,
	"mobile no.":         FieldMobile,
	"mo.no":              FieldMobile,
	"mo no":              FieldMobile,
	"mo. no.":            FieldMobile,
	"mobile":             FieldMobile,
	"phone":              FieldMobile,
	"phone number":       FieldMobile,
	"contact number":     FieldMobile,
	"contact no":         FieldMobile,

	// Status
	"lead status": FieldStatus,
	"status":      FieldStatus,
	"call status": FieldStatus,

	// Mandate / documents
	"mandate status":       FieldMandateStatus,
	"document status":      FieldDocumentStatus,
	"documentation status": FieldDocumentStatus,

	// Notes
	"last discussion": FieldNotes,
	"notes":           FieldNotes,
	"remark":          FieldNotes,
	"remarks":         FieldNotes,
	"discussion":      FieldNotes,

	// Address
	"address":          FieldCompanyLocation,
	"company location": FieldCompanyLocation,
	"location":         FieldCompanyLocation,
	"site address":     FieldCompanyLocation,

	// Follow-up date
	"next follow-up date": FieldFollowUpDate,
	"next follow up date": FieldFollowUpDate,
	"follow-up date":      FieldFollowUpDate,
	"follow up date":      FieldFollowUpDate,
	"followup date":       FieldFollowUpDate,
	"next followup":       FieldFollowUpDate,

	// Secondary contacts
	"mobile number 2":  FieldMobile2,
	"mobile 2":         FieldMobile2,
	"mobile no 2":      FieldMobile2,
	"alternate number": FieldMobile2,
	"contact name 2":   FieldContactName2,
	"name 2":           FieldContactName2,
	"mobile number 3":  FieldMobile3,
	"mobile 3":         FieldMobile3,
	"mobile no 3":      FieldMobile3,
	"contact name 3":   FieldContactName3,
	"name 3":           FieldContactName3,

	// Unit type
	"unit type": FieldUnitType,
	"unit":      FieldUnitType,

	// Conclusion
	"final conclusion": FieldFinalConclusion,
	"conclusion":       FieldFinalConclusion,
}

// ClassifyHeader maps one raw column header to a canonical field.
// Substring rules run first and short-circuit the exact alias lookup.
// Returns false for headers with no mapping; the caller ignores those
// columns silently.
func ClassifyHeader(raw string) (CanonicalField, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Trim(normalized, "\"'")
	if normalized == "" {
		return "", false
	}

	for _, rule := range substringRules {
		if strings.Contains(normalized, rule.needle) {
			return rule.field, true
		}
	}

	if field, ok := headerAliases[normalized]; ok {
		return field, true
	}
	return "", false
}

// MapColumns resolves a raw header row into a column-index mapping.
// Unmatched headers are absent from the result. When two headers classify
// to the same field, the leftmost column wins.
func MapColumns(headers []string) map[int]CanonicalField {
	mapping := make(map[int]CanonicalField, len(headers))
	seen := make(map[CanonicalField]bool, len(headers))
	for i, h := range headers {
		field, ok := ClassifyHeader(h)
		if !ok || seen[field] {
			continue
		}
		seen[field] = true
		mapping[i] = field
	}
	return mapping
}
