package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jhillyerd/enmime"

	"cabquote/internal"
	"cabquote/internal/util"
)

var (
	reCodeToken = regexp.MustCompile(`^\(?([A-Z]{1,5}[0-9][0-9A-Z./-]*)\)?$`)
	reRoomLine  = regexp.MustCompile(`^(?i)(kitchen|bath(?:room)?|laundry|pantry|closet|mudroom|office|island|bar|master|guest)[\s:]*[0-9]*$`)

	noisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^--+$`),
		regexp.MustCompile(`(?i)^thank`),
		regexp.MustCompile(`(?i)^regards`),
		regexp.MustCompile(`(?i)^sincerely`),
		regexp.MustCompile(`(?i)^tel[:\s]`),
		regexp.MustCompile(`(?i)^phone[:\s]`),
		regexp.MustCompile(`(?i)^e-?mail[:\s]`),
		regexp.MustCompile(`(?i)^http`),
	}
)

// ExtractItemsFromInput reads a cabinet schedule from a standalone file.
func ExtractItemsFromInput(inputType, path string) ([]internal.CabinetItem, error) {
	switch strings.ToLower(strings.TrimSpace(inputType)) {
	case "xlsx":
		return ExtractItemsFromXLSX(path)
	case "pdf":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ExtractItemsFromPDF(content)
	case "html":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ExtractItemsFromHTML(string(content)), nil
	case "text", "txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parseScheduleText(string(content), 0), nil
	default:
		return nil, fmt.Errorf("unsupported input type: %s", inputType)
	}
}

// ExtractItemsFromEmailRaw parses a raw quote-request email: schedule lines
// from the text body, tables from the HTML body, and any XLSX/PDF plan
// attachments. Returns the items plus subject, body text and attachment
// names for quote-request detection.
func ExtractItemsFromEmailRaw(raw []byte) ([]internal.CabinetItem, string, string, []string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", "", nil, err
	}

	parts := [][]internal.CabinetItem{}
	if env.Text != "" {
		parts = append(parts, parseScheduleText(env.Text, 0))
	}
	if env.HTML != "" {
		parts = append(parts, ExtractItemsFromHTML(env.HTML))
	}

	attachmentNames := make([]string, 0, len(env.Attachments))
	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		attachmentNames = append(attachmentNames, filename)
		lower := strings.ToLower(filename)

		var extra []internal.CabinetItem
		switch {
		case strings.HasSuffix(lower, ".xlsx"):
			extra, _ = extractXLSXContent(att.Content)
		case strings.HasSuffix(lower, ".pdf"):
			extra, _ = ExtractItemsFromPDF(att.Content)
		}
		for i := range extra {
			if extra[i].Meta == nil {
				extra[i].Meta = map[string]any{}
			}
			extra[i].Meta["attachment"] = filename
		}
		if len(extra) > 0 {
			parts = append(parts, extra)
		}
	}

	return mergeParts(parts), env.GetHeader("Subject"), env.Text, attachmentNames, nil
}

// parseScheduleText reads free-form schedule lines. A line qualifies when
// its first token looks like a cabinet code; room headers switch the room
// for the lines that follow.
func parseScheduleText(text string, page int) []internal.CabinetItem {
	room := "General"
	out := []internal.CabinetItem{}
	for _, line := range splitLines(text) {
		if isNoiseLine(line) {
			continue
		}
		if m := reRoomLine.FindStringSubmatch(line); m != nil {
			room = titleCase(m[1])
			continue
		}
		item := parseScheduleLine(line, room, page)
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

func parseScheduleLine(line, room string, page int) *internal.CabinetItem {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return nil
	}

	codeToken := strings.ToUpper(fields[0])
	m := reCodeToken.FindStringSubmatch(codeToken)
	if m == nil {
		return nil
	}
	code := m[1]

	rest := strings.Join(fields[1:], " ")
	width, height, depth := util.ParseDimensions(line)
	qty := util.ParseQuantity(line)
	price := util.ParseMoney(line)

	normalized := util.NormalizeCode(code)
	return &internal.CabinetItem{
		ID:             uuid.NewString(),
		OriginalCode:   code,
		NormalizedCode: normalized,
		Type:           internal.ClassifyCode(normalized),
		Description:    strings.TrimSpace(rest),
		Width:          width,
		Height:         height,
		Depth:          depth,
		Quantity:       qty,
		Room:           room,
		SourcePage:     page,
		ExtractedPrice: price,
	}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isNoiseLine(line string) bool {
	for _, re := range noisePatterns {
		if re.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

// mergeParts concatenates per-part extractions, dropping an item only when
// an earlier part already produced the same row: clients send the same
// schedule as both a text and an HTML body, and plan attachments repeat it
// again. Two identical rows inside one part are two cabinets and both stay.
func mergeParts(parts [][]internal.CabinetItem) []internal.CabinetItem {
	seen := map[string]struct{}{}
	out := []internal.CabinetItem{}
	for _, part := range parts {
		keys := make([]string, len(part))
		for i, item := range part {
			keys[i] = fmt.Sprintf("%s|%s|%d|%g", item.Room, item.OriginalCode, item.Quantity, item.Width)
			if _, dup := seen[keys[i]]; dup {
				continue
			}
			out = append(out, item)
		}
		for _, k := range keys {
			seen[k] = struct{}{}
		}
	}
	return out
}

func titleCase(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
