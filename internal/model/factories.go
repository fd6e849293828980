package model

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// init ensures gofakeit is seeded.
func init() {
	gofakeit.Seed(time.Now().UnixNano())
}

// NewLead creates a Lead with plausible fake data for tests. Pass an
// override to pin specific fields.
func NewLead(overrideDefaults ...*Lead) *Lead {
	now := time.Now().UTC()
	number := fmt.Sprintf("9%09d", gofakeit.Number(0, 999999999))
	base := &Lead{
		ID:             uuid.New().String(),
		KVA:            fmt.Sprintf("%d", gofakeit.Number(10, 999)),
		ConsumerNumber: fmt.Sprintf("%d", gofakeit.Number(10000000, 99999999)),
		Company:        gofakeit.Company(),
		ClientName:     gofakeit.Name(),
		Discom:         gofakeit.RandomString([]string{"UGVCL", "DGVCL", "MGVCL", "PGVCL", "Torrent"}),
		GIDC:           gofakeit.City(),
		GSTNumber:      fmt.Sprintf("24%s", gofakeit.LetterN(10)),
		UnitType:       UnitTypeNew,
		MobileNumber:   number,
		MobileNumbers: []MobileNumber{
			{ID: uuid.New().String(), Number: number, Name: "", IsMain: true},
			{}, {},
		},
		Status:         StatusNew,
		MandateStatus:  MandatePending,
		DocumentStatus: DocPendingDocuments,
		ConnectionDate: now.Format("02-01-2006"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if len(overrideDefaults) > 0 && overrideDefaults[0] != nil {
		ovr := overrideDefaults[0]
		if ovr.ID != "" {
			base.ID = ovr.ID
		}
		if ovr.KVA != "" {
			base.KVA = ovr.KVA
		}
		if ovr.ConsumerNumber != "" {
			base.ConsumerNumber = ovr.ConsumerNumber
		}
		if ovr.Company != "" {
			base.Company = ovr.Company
		}
		if ovr.ClientName != "" {
			base.ClientName = ovr.ClientName
		}
		if ovr.Discom != "" {
			base.Discom = ovr.Discom
		}
		if ovr.Status != "" {
			base.Status = ovr.Status
		}
		if ovr.FollowUpDate != "" {
			base.FollowUpDate = ovr.FollowUpDate
		}
		if ovr.LastActivityDate != "" {
			base.LastActivityDate = ovr.LastActivityDate
		}
		if ovr.Notes != "" {
			base.Notes = ovr.Notes
		}
		base.IsDone = ovr.IsDone
		base.IsDeleted = ovr.IsDeleted
		base.IsUpdated = ovr.IsUpdated
	}

	return base
}
