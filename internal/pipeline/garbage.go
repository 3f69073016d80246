package pipeline

import (
	"regexp"
	"strings"

	"cabquote/internal"
)

var (
	rePageFooter = regexp.MustCompile(`PAGE\s+\d+\s+OF\s+\d+`)
	reCodeLead   = regexp.MustCompile(`^[A-Z0-9]{1,5}\d`)

	adminPhrases = []string{
		"SUBTOTAL",
		"SUB-TOTAL",
		"SUB TOTAL",
		"GRAND TOTAL",
		"TOTAL:",
		"SALES TAX",
		"TAX:",
		"SHIPPING",
		"FREIGHT",
		"JOB NAME",
		"JOB #",
		"CUSTOMER:",
		"SIGNATURE",
		"SIGN HERE",
		"APPROVED BY",
		"DATE:",
		"TERMS",
		"BALANCE DUE",
		"DEPOSIT",
		"THANK YOU",
		"CONTINUED",
	}

	roomHeaders = []string{
		"KITCHEN", "BATH", "BATHROOM", "LAUNDRY", "PANTRY", "CLOSET",
		"MUDROOM", "OFFICE", "GARAGE", "ISLAND", "BAR", "GENERAL",
	}
)

// IsGarbage rejects extracted rows that are clearly not cabinet entries:
// page footers, totals and other administrative lines, stray sentences,
// bare room headers, and appliance callouts that carry no real code.
func IsGarbage(item internal.CabinetItem) bool {
	code := strings.ToUpper(strings.TrimSpace(item.OriginalCode))
	desc := strings.ToUpper(strings.TrimSpace(item.Description))
	text := strings.TrimSpace(code + " " + desc)
	if text == "" {
		return true
	}

	if rePageFooter.MatchString(text) {
		return true
	}

	for _, phrase := range adminPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}

	// A 50+ character "code" with spaces is a sentence the extractor
	// mistook for a SKU.
	if len(code) > 50 && strings.Contains(code, " ") {
		return true
	}

	for _, room := range roomHeaders {
		if code == room || desc == room {
			return true
		}
	}

	if strings.Contains(text, "REFRIGERATOR") || strings.Contains(text, "RANGE") {
		if !looksLikeCabinetEntry(code, text) {
			return true
		}
	}

	return false
}

// looksLikeCabinetEntry decides whether an appliance mention still belongs
// in the quote: it needs a plausible alphanumeric code that is not itself
// an appliance keyword, or an explicit panel/cabinet reference.
func looksLikeCabinetEntry(code, text string) bool {
	if strings.Contains(text, "PANEL") || strings.Contains(text, "PNL") || strings.Contains(text, "CABINET") {
		return true
	}
	if !reCodeLead.MatchString(code) {
		return false
	}
	for _, kw := range []string{"REFRIGERATOR", "RANGE", "APPLIANCE", "BY OTHERS"} {
		if strings.Contains(code, kw) {
			return false
		}
	}
	return true
}
