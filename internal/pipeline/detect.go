package pipeline

import "strings"

type DetectResult struct {
	IsQuoteRequest bool
	Score          float64
	Reason         string
}

var detectKeywords = []string{"quote", "pricing", "estimate", "bid", "proposal", "cabinet", "kitchen", "plans", "schedule", "qty"}

var planExtensions = []string{".xlsx", ".xls", ".pdf", ".dwg"}

// DetectQuoteRequest scores an inbound email on keyword hits, cabinet-code
// density, plan attachments and embedded tables. Everything under the
// threshold is skipped instead of priced.
func DetectQuoteRequest(subject, text, html string, attachmentNames []string) DetectResult {
	lowerSubject := strings.ToLower(subject)
	lowerText := strings.ToLower(text)
	lowerHTML := strings.ToLower(html)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(lowerSubject, kw) {
			score += 0.2
		}
		if strings.Contains(lowerText, kw) || strings.Contains(lowerHTML, kw) {
			score += 0.1
		}
	}

	codeHits := len(parseScheduleText(strings.ToUpper(text), 0))
	if codeHits >= 2 {
		score += 0.4
	} else if codeHits == 1 {
		score += 0.2
	}

	for _, name := range attachmentNames {
		if hasPlanExtension(name) {
			score += 0.25
			break
		}
	}

	if strings.Contains(lowerHTML, "<table") {
		score += 0.25
	}
	if score > 1 {
		score = 1
	}

	isQuote := score >= 0.45
	reason := "rules_negative"
	if isQuote {
		reason = "rules_positive"
	}
	return DetectResult{IsQuoteRequest: isQuote, Score: score, Reason: reason}
}

func hasPlanExtension(name string) bool {
	ln := strings.ToLower(name)
	for _, ext := range planExtensions {
		if strings.HasSuffix(ln, ext) {
			return true
		}
	}
	return false
}
