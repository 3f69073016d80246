package catalog

import (
	"bytes"
	"errors"
	"io"

	xls "github.com/extrame/xls"

	"cabquote/internal"
)

// importXLS handles legacy binary .xls price books, which some
// manufacturers still publish. Row.LastCol is unreliable on these files,
// so the sheet width is probed up front and every row is read to it.
func importXLS(r io.Reader) (ImportResult, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, err
	}

	wb, err := xls.OpenReader(bytes.NewReader(b), "utf-8")
	if err != nil || wb == nil {
		if err == nil {
			err = errors.New("xls: failed to open workbook")
		}
		return ImportResult{}, err
	}

	result := ImportResult{Catalog: internal.Catalog{}}
	for s := 0; s < wb.NumSheets(); s++ {
		sheet := wb.GetSheet(s)
		if sheet == nil {
			continue
		}
		width := sheetWidth(sheet)
		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for i := 0; i <= int(sheet.MaxRow); i++ {
			row := sheet.Row(i)
			cols := make([]string, width)
			if row != nil {
				for j := 0; j < width; j++ {
					cols[j] = row.Col(j)
				}
			}
			rows = append(rows, cols)
		}
		mergeRows(&result, rows)
	}

	if len(result.Catalog) == 0 {
		return ImportResult{}, errors.New("no catalog rows found in xls workbook")
	}
	return result, nil
}

func sheetWidth(sheet *xls.WorkSheet) int {
	const probeMax = 256
	width := 1
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := 0; j < probeMax; j++ {
			if row.Col(j) != "" && j+1 > width {
				width = j + 1
			}
		}
	}
	return width
}
