package pipeline

import (
	"bytes"

	pdf "github.com/ledongthuc/pdf"

	"cabquote/internal"
)

// ExtractItemsFromPDF pulls schedule lines out of a PDF plan's text layer.
// Scanned plans with no text layer simply yield nothing; the vision
// extraction collaborator covers those.
func ExtractItemsFromPDF(content []byte) ([]internal.CabinetItem, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []internal.CabinetItem{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		out = append(out, parseScheduleText(text, i)...)
	}
	return out, nil
}
