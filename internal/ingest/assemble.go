package ingest

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/urjaconsultants/lead-pipeline/internal/model"
	"github.com/urjaconsultants/lead-pipeline/pkg/utils"
)

// addressMarkerRe locates an embedded "Address:" segment inside free-text
// notes. The segment runs to the next '|' or to end of string.
var addressMarkerRe = regexp.MustCompile(`(?i)address\s*:\s*`)

// PartialLead is the typed field bag accumulated for one row while its
// columns are classified and normalized. Each canonical attribute is
// optional; validation and defaulting happen only at Assemble.
type PartialLead struct {
	KVA             *string
	ConsumerNumber  *string
	Company         *string
	ClientName      *string
	Discom          *string
	GIDC            *string
	GSTNumber       *string
	CompanyLocation *string
	UnitType        *string
	Mobile          *string
	Mobile2         *string
	ContactName2    *string
	Mobile3         *string
	ContactName3    *string
	Status          *string
	MandateStatus   *string
	DocumentStatus  *string
	ConnectionDate  *string
	FollowUpDate    *string
	Notes           *string
	FinalConclusion *string
}

// Set stores one classified cell. Date fields are normalized here so the
// bag only ever holds canonical (or passthrough) strings; everything else
// is stored as trimmed text.
func (p *PartialLead) Set(field CanonicalField, cell Cell) {
	switch field {
	case FieldConnectionDate:
		p.ConnectionDate = ptr(NormalizeDate(cell))
	case FieldFollowUpDate:
		p.FollowUpDate = ptr(NormalizeDate(cell))
	case FieldKVA:
		p.KVA = ptr(cell.Text())
	case FieldConsumerNumber:
		p.ConsumerNumber = ptr(cell.Text())
	case FieldCompany:
		p.Company = ptr(cell.Text())
	case FieldClientName:
		p.ClientName = ptr(cell.Text())
	case FieldDiscom:
		p.Discom = ptr(cell.Text())
	case FieldGIDC:
		p.GIDC = ptr(cell.Text())
	case FieldGSTNumber:
		p.GSTNumber = ptr(cell.Text())
	case FieldCompanyLocation:
		p.CompanyLocation = ptr(cell.Text())
	case FieldUnitType:
		p.UnitType = ptr(cell.Text())
	case FieldMobile:
		p.Mobile = ptr(cell.Text())
	case FieldMobile2:
		p.Mobile2 = ptr(cell.Text())
	case FieldContactName2:
		p.ContactName2 = ptr(cell.Text())
	case FieldMobile3:
		p.Mobile3 = ptr(cell.Text())
	case FieldContactName3:
		p.ContactName3 = ptr(cell.Text())
	case FieldStatus:
		p.Status = ptr(cell.Text())
	case FieldMandateStatus:
		p.MandateStatus = ptr(cell.Text())
	case FieldDocumentStatus:
		p.DocumentStatus = ptr(cell.Text())
	case FieldNotes:
		p.Notes = ptr(cell.Text())
	case FieldFinalConclusion:
		p.FinalConclusion = ptr(cell.Text())
	}
}

// Assemble finalizes the bag into a complete Lead. Every unset field gets
// its explicit default, contacts are parsed and merged with the dedicated
// slot columns, and an embedded Address: segment is extracted from notes.
// The result has not yet passed the importer's identity admission check.
func (p *PartialLead) Assemble(now time.Time) model.Lead {
	lead := model.Lead{
		ID:              model.NewLeadID(),
		KVA:             deref(p.KVA),
		ConsumerNumber:  deref(p.ConsumerNumber),
		Company:         deref(p.Company),
		ClientName:      deref(p.ClientName),
		Discom:          deref(p.Discom),
		GIDC:            deref(p.GIDC),
		GSTNumber:       deref(p.GSTNumber),
		CompanyLocation: deref(p.CompanyLocation),
		UnitType:        canonicalUnitType(deref(p.UnitType)),
		Status:          CanonicalStatus(deref(p.Status)),
		MandateStatus:   canonicalMandateStatus(deref(p.MandateStatus)),
		DocumentStatus:  canonicalDocumentStatus(deref(p.DocumentStatus)),
		ConnectionDate:  deref(p.ConnectionDate),
		FollowUpDate:    deref(p.FollowUpDate),
		Notes:           deref(p.Notes),
		FinalConclusion: deref(p.FinalConclusion),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	contacts := ParseContactList(deref(p.Mobile), lead.ClientName)
	mergeContactSlot(contacts, 1, deref(p.Mobile2), deref(p.ContactName2))
	mergeContactSlot(contacts, 2, deref(p.Mobile3), deref(p.ContactName3))
	lead.MobileNumbers = contacts
	lead.SyncMobileMirror()

	if lead.CompanyLocation == "" {
		if address, remainder, found := extractAddress(lead.Notes); found {
			lead.CompanyLocation = address
			lead.Notes = remainder
		}
	}

	return lead
}

// mergeContactSlot overwrites one of the dedicated secondary contact slots
// when the source provided explicit columns for it.
func mergeContactSlot(contacts []model.MobileNumber, idx int, rawNumber, name string) {
	number := utils.TruncateDigits(rawNumber, maxMobileDigits)
	if number == "" && name == "" {
		return
	}
	contacts[idx] = model.MobileNumber{
		ID:     uuid.New().String(),
		Number: number,
		Name:   name,
	}
}

// extractAddress pulls an embedded "Address: ..." segment out of notes.
// The segment ends at the next '|' or end of string. The remaining note
// text has the segment removed and its first letter re-capitalized.
func extractAddress(notes string) (address, remainder string, found bool) {
	loc := addressMarkerRe.FindStringIndex(notes)
	if loc == nil {
		return "", notes, false
	}

	rest := notes[loc[1]:]
	before := strings.Trim(strings.TrimSpace(notes[:loc[0]]), "| ")
	var after string
	if end := strings.Index(rest, "|"); end >= 0 {
		address = strings.TrimSpace(rest[:end])
		after = strings.Trim(strings.TrimSpace(rest[end+1:]), "| ")
	} else {
		address = strings.TrimSpace(rest)
	}

	switch {
	case before != "" && after != "":
		remainder = before + " | " + after
	case before != "":
		remainder = before
	default:
		remainder = after
	}
	return address, capitalizeFirst(remainder), true
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func canonicalUnitType(raw string) string {
	for _, u := range []string{model.UnitTypeNew, model.UnitTypeExisting, model.UnitTypeOther} {
		if strings.EqualFold(strings.TrimSpace(raw), u) {
			return u
		}
	}
	return model.UnitTypeNew
}

func canonicalMandateStatus(raw string) string {
	for _, m := range []string{model.MandatePending, model.MandateInProgress, model.MandateCompleted} {
		if strings.EqualFold(strings.TrimSpace(raw), m) {
			return m
		}
	}
	return model.MandatePending
}

func canonicalDocumentStatus(raw string) string {
	for _, d := range []string{
		model.DocPendingDocuments, model.DocDocumentsSubmitted,
		model.DocDocumentsReviewed, model.DocSignedMandate,
	} {
		if strings.EqualFold(strings.TrimSpace(raw), d) {
			return d
		}
	}
	return model.DocPendingDocuments
}

func ptr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
