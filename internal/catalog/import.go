package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"cabquote/internal"
	"cabquote/internal/util"
)

// ImportResult is a parsed manufacturer price book: the SKU catalog plus
// the tier (price column) names in sheet order.
type ImportResult struct {
	Catalog internal.Catalog
	Tiers   []string
}

var skuHeaderProbes = []string{"sku", "item code", "item", "code", "model", "nomenclature"}

var skipHeaderProbes = []string{"description", "desc", "qty", "quantity", "notes", "dimensions", "size"}

// ImportPriceBook reads a manufacturer price book, dispatching on the file
// extension: .xlsx (current books), .xls (legacy books), .csv (exports).
func ImportPriceBook(path string) (ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return importXLSX(path)
	case ".xls":
		f, err := os.Open(path)
		if err != nil {
			return ImportResult{}, err
		}
		defer f.Close()
		return importXLS(f)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return ImportResult{}, err
		}
		defer f.Close()
		return importCSV(f)
	default:
		return ImportResult{}, fmt.Errorf("unsupported price book format: %s", path)
	}
}

func importXLSX(path string) (ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{}, err
	}
	defer f.Close()

	result := ImportResult{Catalog: internal.Catalog{}}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		mergeRows(&result, rows)
	}
	if len(result.Catalog) == 0 {
		return ImportResult{}, fmt.Errorf("no catalog rows found in %s", path)
	}
	return result, nil
}

// mergeRows folds one sheet's rows into the result. The header row is the
// first row (within the top ten) carrying a recognizable SKU column; every
// other non-empty header that isn't descriptive becomes a tier column.
func mergeRows(result *ImportResult, rows [][]string) {
	headerRow, skuIdx := findHeaderRow(rows)
	if skuIdx < 0 {
		return
	}

	header := rows[headerRow]
	tierCols := map[int]string{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == skuIdx || name == "" || isSkippedHeader(name) {
			continue
		}
		tierCols[i] = name
		if !containsString(result.Tiers, name) {
			result.Tiers = append(result.Tiers, name)
		}
	}
	if len(tierCols) == 0 {
		return
	}

	for _, row := range rows[headerRow+1:] {
		if skuIdx >= len(row) {
			continue
		}
		sku := util.LookupKey(row[skuIdx])
		if sku == "" || len(sku) < 2 {
			continue
		}
		for i, tier := range tierCols {
			if i >= len(row) {
				continue
			}
			price, ok := parsePrice(row[i])
			if !ok {
				continue
			}
			if result.Catalog[sku] == nil {
				result.Catalog[sku] = internal.TierPrices{}
			}
			result.Catalog[sku][tier] = price
		}
	}
}

func findHeaderRow(rows [][]string) (rowIdx, skuIdx int) {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for r := 0; r < limit; r++ {
		for c, cell := range rows[r] {
			lc := strings.ToLower(strings.TrimSpace(cell))
			for _, probe := range skuHeaderProbes {
				if lc == probe || strings.HasPrefix(lc, probe+" ") {
					return r, c
				}
			}
		}
	}
	return 0, -1
}

func isSkippedHeader(name string) bool {
	lc := strings.ToLower(name)
	for _, probe := range skipHeaderProbes {
		if strings.Contains(lc, probe) {
			return true
		}
	}
	return false
}

func parsePrice(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
