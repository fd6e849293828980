package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm/schema"
)

// LeadStatus is the fixed workflow status enumeration. Every status written
// to a Lead must be one of these labels; free-text status input is
// canonicalized by the ingest package before it reaches the model.
type LeadStatus string

const (
	StatusNew           LeadStatus = "New"
	StatusCNR           LeadStatus = "CNR"
	StatusBusy          LeadStatus = "Busy"
	StatusFollowUp      LeadStatus = "Follow-up"
	StatusDealClose     LeadStatus = "Deal Close"
	StatusWorkAlloted   LeadStatus = "Work Alloted"
	StatusHotlead       LeadStatus = "Hotlead"
	StatusMandateSent   LeadStatus = "Mandate Sent"
	StatusDocumentation LeadStatus = "Documentation"
)

// AllLeadStatuses returns the enumeration in its declaration order.
func AllLeadStatuses() []LeadStatus {
	return []LeadStatus{
		StatusNew, StatusCNR, StatusBusy, StatusFollowUp, StatusDealClose,
		StatusWorkAlloted, StatusHotlead, StatusMandateSent, StatusDocumentation,
	}
}

// IsValid reports whether s is a member of the status enumeration.
func (s LeadStatus) IsValid() bool {
	for _, known := range AllLeadStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Mandate workflow states.
const (
	MandatePending    = "Pending"
	MandateInProgress = "In Progress"
	MandateCompleted  = "Completed"
)

// Document workflow states.
const (
	DocPendingDocuments   = "Pending Documents"
	DocDocumentsSubmitted = "Documents Submitted"
	DocDocumentsReviewed  = "Documents Reviewed"
	DocSignedMandate      = "Signed Mandate"
)

// Unit types.
const (
	UnitTypeNew      = "New"
	UnitTypeExisting = "Existing"
	UnitTypeOther    = "Other"
)

// MaxMobileNumbers is the fixed contact slot count on a Lead.
const MaxMobileNumbers = 3

// MobileNumber is one contact slot on a lead. Number holds digits only,
// at most 10 characters.
type MobileNumber struct {
	ID     string `json:"id"`
	Number string `json:"number" validate:"omitempty,max=10,numeric"`
	Name   string `json:"name"`
	IsMain bool   `json:"isMain"`
}

// IsEmpty reports whether the slot carries no contact.
func (m MobileNumber) IsEmpty() bool {
	return m.Number == "" && m.Name == ""
}

// Activity is one append-only audit trail entry. Entries are never mutated
// or reordered after append.
type Activity struct {
	ID          string    `json:"id"`
	LeadID      string    `json:"leadId"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Lead is the canonical unit of business data produced by the ingestion
// pipeline and consumed by the filter engine.
type Lead struct {
	ID             string `json:"id" gorm:"primaryKey;type:text"`
	KVA            string `json:"kva" gorm:"type:text"`
	ConsumerNumber string `json:"consumerNumber" gorm:"type:text;index"`
	Company        string `json:"company" gorm:"type:text"`
	ClientName     string `json:"clientName" gorm:"type:text"`

	Discom          string `json:"discom,omitempty" gorm:"type:text"`
	GIDC            string `json:"gidc,omitempty" gorm:"column:gidc;type:text"`
	GSTNumber       string `json:"gstNumber,omitempty" gorm:"column:gst_number;type:text"`
	CompanyLocation string `json:"companyLocation,omitempty" gorm:"type:text"`
	UnitType        string `json:"unitType,omitempty" gorm:"type:text;default:New" validate:"omitempty,oneof=New Existing Other"`

	// MobileNumber is a deprecated scalar mirror of the main contact's
	// number. Every writer keeps it in sync via SyncMobileMirror.
	MobileNumber  string                                `json:"mobileNumber,omitempty" gorm:"type:text"`
	MobileNumbers datatypes.JSONSlice[MobileNumber]     `json:"mobileNumbers" gorm:"type:jsonb" validate:"max=3,dive"`

	Status         LeadStatus `json:"status" gorm:"type:text;default:New" validate:"omitempty,leadstatus"`
	MandateStatus  string     `json:"mandateStatus" gorm:"type:text;default:Pending" validate:"omitempty,oneof=Pending 'In Progress' Completed"`
	DocumentStatus string     `json:"documentStatus" gorm:"type:text" validate:"omitempty,oneof='Pending Documents' 'Documents Submitted' 'Documents Reviewed' 'Signed Mandate'"`

	// Canonical DD-MM-YYYY strings, possibly empty.
	ConnectionDate   string `json:"connectionDate,omitempty" gorm:"type:text" validate:"omitempty,ddmmyyyy"`
	FollowUpDate     string `json:"followUpDate,omitempty" gorm:"type:text" validate:"omitempty,ddmmyyyy"`
	LastActivityDate string `json:"lastActivityDate,omitempty" gorm:"type:text"`

	IsDone    bool `json:"isDone" gorm:"default:false"`
	IsDeleted bool `json:"isDeleted" gorm:"index;default:false"`
	IsUpdated bool `json:"isUpdated" gorm:"default:false"`

	Activities datatypes.JSONSlice[Activity] `json:"activities" gorm:"type:jsonb"`

	Notes           string `json:"notes,omitempty" gorm:"type:text"`
	FinalConclusion string `json:"finalConclusion,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt,omitempty" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Lead model, respecting the Namer.
func (Lead) TableName(namer schema.Namer) string {
	return namer.TableName("leads")
}

// NewLeadID generates an opaque unique lead identifier.
func NewLeadID() string {
	return uuid.New().String()
}

// MainMobile returns the display-main contact: the entry flagged IsMain, or
// by convention the first non-empty entry when none is flagged. Returns an
// empty MobileNumber when the lead has no contacts.
func (l *Lead) MainMobile() MobileNumber {
	for _, m := range l.MobileNumbers {
		if m.IsMain && !m.IsEmpty() {
			return m
		}
	}
	for _, m := range l.MobileNumbers {
		if !m.IsEmpty() {
			return m
		}
	}
	return MobileNumber{}
}

// NormalizeContacts clears the main flag from empty slots and from every
// flagged entry after the first, so at most one contact carries IsMain.
func (l *Lead) NormalizeContacts() {
	seen := false
	for i := range l.MobileNumbers {
		if !l.MobileNumbers[i].IsMain {
			continue
		}
		if seen || l.MobileNumbers[i].IsEmpty() {
			l.MobileNumbers[i].IsMain = false
			continue
		}
		seen = true
	}
}

// SyncMobileMirror refreshes the deprecated scalar mirror from the main
// contact. Call after any change to MobileNumbers.
func (l *Lead) SyncMobileMirror() {
	l.MobileNumber = l.MainMobile().Number
}

// AddActivity appends an audit trail entry. The trail is append-only.
func (l *Lead) AddActivity(description string, at time.Time) {
	l.Activities = append(l.Activities, Activity{
		ID:          uuid.New().String(),
		LeadID:      l.ID,
		Description: description,
		Timestamp:   at,
	})
}
