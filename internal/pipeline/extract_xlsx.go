package pipeline

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"cabquote/internal"
	"cabquote/internal/util"
)

type scheduleColumns struct {
	code, desc, qty, width, height, depth, room, typ, price int
}

// ExtractItemsFromXLSX reads a cabinet schedule workbook from disk.
func ExtractItemsFromXLSX(path string) ([]internal.CabinetItem, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return itemsFromWorkbook(f)
}

func extractXLSXContent(content []byte) ([]internal.CabinetItem, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return itemsFromWorkbook(f)
}

func itemsFromWorkbook(f *excelize.File) ([]internal.CabinetItem, error) {
	out := []internal.CabinetItem{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		out = append(out, itemsFromRows(rows)...)
	}
	return out, nil
}

// itemsFromRows walks a schedule sheet. Columns are inferred from the
// first header-looking row; until one is found, rows fall back to
// free-form line parsing. A row with only its first cell filled is a room
// header.
func itemsFromRows(rows [][]string) []internal.CabinetItem {
	cols := scheduleColumns{code: -1, desc: -1, qty: -1, width: -1, height: -1, depth: -1, room: -1, typ: -1, price: -1}
	haveHeader := false
	room := "General"
	out := []internal.CabinetItem{}

	for _, raw := range rows {
		cells := trimCells(raw)
		if len(cells) == 0 {
			continue
		}

		if !haveHeader {
			// A lone code-looking cell ("Base Cabinets") is not a header;
			// require a second recognized column.
			if c := inferScheduleColumns(cells); c.code >= 0 && hasSecondColumn(c) {
				cols = c
				haveHeader = true
				continue
			}
		}

		if nonEmpty := countNonEmpty(cells); nonEmpty == 1 && cells[0] != "" && !strings.ContainsAny(cells[0], "0123456789") {
			room = cells[0]
			continue
		}

		var item *internal.CabinetItem
		if haveHeader {
			item = itemFromCells(cells, cols, room)
		} else {
			item = parseScheduleLine(strings.Join(cells, " "), room, 0)
		}
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

func itemFromCells(cells []string, cols scheduleColumns, room string) *internal.CabinetItem {
	code := strings.ToUpper(cell(cells, cols.code))
	if code == "" || !strings.ContainsAny(code, "0123456789") {
		return nil
	}

	normalized := util.NormalizeCode(code)
	item := internal.CabinetItem{
		ID:             uuid.NewString(),
		OriginalCode:   code,
		NormalizedCode: normalized,
		Description:    cell(cells, cols.desc),
		Quantity:       1,
		Room:           room,
	}

	if r := cell(cells, cols.room); r != "" {
		item.Room = r
	}
	if q := cell(cells, cols.qty); q != "" {
		item.Quantity = util.ParseQuantity(q)
	}
	item.Width = numericCell(cells, cols.width)
	item.Height = numericCell(cells, cols.height)
	item.Depth = numericCell(cells, cols.depth)
	if item.Width == 0 && item.Height == 0 {
		item.Width, item.Height, item.Depth = util.ParseDimensions(strings.Join(cells, " "))
	}
	if p := cell(cells, cols.price); p != "" {
		item.ExtractedPrice = util.ParseMoney("$" + strings.TrimPrefix(p, "$"))
	}

	if t := cell(cells, cols.typ); t != "" {
		item.Type = internal.ParseCabinetType(t)
	}
	if item.Type == "" || item.Type == internal.TypeUnknown {
		item.Type = internal.ClassifyCode(normalized)
	}
	return &item
}

func inferScheduleColumns(headers []string) scheduleColumns {
	cols := scheduleColumns{code: -1, desc: -1, qty: -1, width: -1, height: -1, depth: -1, room: -1, typ: -1, price: -1}
	for i, h := range headers {
		lc := strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.code < 0 && (strings.Contains(lc, "code") || lc == "sku" || lc == "item" || strings.Contains(lc, "cab")):
			cols.code = i
		case cols.desc < 0 && strings.Contains(lc, "desc"):
			cols.desc = i
		case cols.qty < 0 && (strings.Contains(lc, "qty") || strings.Contains(lc, "quant") || lc == "count"):
			cols.qty = i
		case cols.width < 0 && (lc == "w" || strings.Contains(lc, "width")):
			cols.width = i
		case cols.height < 0 && (lc == "h" || strings.Contains(lc, "height")):
			cols.height = i
		case cols.depth < 0 && (lc == "d" || strings.Contains(lc, "depth")):
			cols.depth = i
		case cols.room < 0 && (strings.Contains(lc, "room") || strings.Contains(lc, "location")):
			cols.room = i
		case cols.typ < 0 && (strings.Contains(lc, "type") || strings.Contains(lc, "category")):
			cols.typ = i
		case cols.price < 0 && (strings.Contains(lc, "price") || strings.Contains(lc, "amount")):
			cols.price = i
		}
	}
	return cols
}

func hasSecondColumn(c scheduleColumns) bool {
	for _, idx := range []int{c.desc, c.qty, c.width, c.height, c.depth, c.room, c.typ, c.price} {
		if idx >= 0 {
			return true
		}
	}
	return false
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func numericCell(cells []string, idx int) float64 {
	s := cell(cells, idx)
	if s == "" {
		return 0
	}
	s = strings.Trim(s, `"in `)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func countNonEmpty(cells []string) int {
	n := 0
	for _, c := range cells {
		if c != "" {
			n++
		}
	}
	return n
}
