// Package export renders leads back into the tabular layout that the
// ingestion pipeline accepts, so exported files re-import cleanly.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/urjaconsultants/lead-pipeline/internal/model"
)

// ExportHeaders is the fixed column layout of an exported table. Every
// header resolves back to a canonical field through the import header
// classifier, which is what makes exports round-trip.
var ExportHeaders = []string{
	"con.no",
	"KVA",
	"Connection Date",
	"Company Name",
	"Client Name",
	"Discom",
	"GIDC",
	"GST Number",
	"Main Mobile Number",
	"Lead Status",
	"Last Discussion",
	"Address",
	"Next Follow-up Date",
	"Mobile Number 2",
	"Contact Name 2",
	"Mobile Number 3",
	"Contact Name 3",
}

// BuildTable renders the leads as a header row followed by one row per
// lead, in the order given.
func BuildTable(leads []model.Lead) [][]string {
	rows := make([][]string, 0, len(leads)+1)
	rows = append(rows, ExportHeaders)
	for i := range leads {
		rows = append(rows, buildRow(&leads[i]))
	}
	return rows
}

func buildRow(lead *model.Lead) []string {
	second := contactSlot(lead, 1)
	third := contactSlot(lead, 2)
	return []string{
		lead.ConsumerNumber,
		lead.KVA,
		lead.ConnectionDate,
		lead.Company,
		lead.ClientName,
		lead.Discom,
		lead.GIDC,
		lead.GSTNumber,
		renderMainMobile(lead),
		string(lead.Status),
		lead.Notes,
		lead.CompanyLocation,
		lead.FollowUpDate,
		second.Number,
		second.Name,
		third.Number,
		third.Name,
	}
}

// renderMainMobile formats the main contact as "<number> (<name>)" when a
// name is present, which the contact list parser reads back as an
// annotated entry.
func renderMainMobile(lead *model.Lead) string {
	main := lead.MainMobile()
	if main.Number == "" {
		return ""
	}
	if main.Name == "" {
		return main.Number
	}
	return fmt.Sprintf("%s (%s)", main.Number, main.Name)
}

func contactSlot(lead *model.Lead, idx int) model.MobileNumber {
	if idx < len(lead.MobileNumbers) {
		return lead.MobileNumbers[idx]
	}
	return model.MobileNumber{}
}

// WriteCSV streams the leads as a CSV document.
func WriteCSV(w io.Writer, leads []model.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(BuildTable(leads)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
