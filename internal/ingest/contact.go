package ingest

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/urjaconsultants/lead-pipeline/internal/model"
	"github.com/urjaconsultants/lead-pipeline/pkg/utils"
)

const maxMobileDigits = 10

var (
	// Label prefixes such as "Mobile:" or "Contact No -" carried over from
	// free-form source cells.
	contactLabelRe = regexp.MustCompile(`(?i)^\s*(mobile|mo\.?\s*no\.?|phone|contact)\s*(no\.?|number)?\s*[:\-]\s*`)

	// Tokens split on the separator characters or on runs of 2+ spaces.
	contactSplitRe = regexp.MustCompile(`[,;|/\r\n]+|[ \t]{2,}`)

	// "<number text> (<name>)" annotation.
	annotatedContactRe = regexp.MustCompile(`^(.*?)\s*\((.*?)\)\s*$`)
)

// ParseContactList parses one free-text cell holding up to 3 phone contacts
// into exactly model.MaxMobileNumbers slots, padding with empty entries.
// fallbackName, when non-empty, is assigned to the first slot only, and
// only when that slot parsed a number without an explicit name. The main
// flag always lands on slot 0. Tokens past the third are discarded
// silently.
func ParseContactList(raw, fallbackName string) []model.MobileNumber {
	slots := make([]model.MobileNumber, model.MaxMobileNumbers)

	cleaned := contactLabelRe.ReplaceAllString(raw, "")
	filled := 0
	for _, token := range contactSplitRe.Split(cleaned, -1) {
		if filled >= model.MaxMobileNumbers {
			break
		}
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		var number, name string
		if m := annotatedContactRe.FindStringSubmatch(token); m != nil {
			number = utils.TruncateDigits(m[1], maxMobileDigits)
			name = strings.TrimSpace(m[2])
		} else {
			number = utils.TruncateDigits(token, maxMobileDigits)
		}

		slots[filled] = model.MobileNumber{Number: number, Name: name}
		filled++
	}

	if fallbackName != "" && slots[0].Number != "" && slots[0].Name == "" {
		slots[0].Name = fallbackName
	}

	for i := range slots {
		if !slots[i].IsEmpty() {
			slots[i].ID = uuid.New().String()
		}
	}
	if !slots[0].IsEmpty() {
		slots[0].IsMain = true
	}

	return slots
}
