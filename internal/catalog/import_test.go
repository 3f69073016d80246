package catalog

import (
	"strings"
	"testing"
)

func TestImportCSV(t *testing.T) {
	csvData := "Acme Cabinets 2026 Price Book,,,\n" +
		"SKU,Description,Standard,Premium\n" +
		"B15,15in base,$200.00,260\n" +
		"SB33,sink base,310,-\n" +
		"W-3030,wall cab,\"1,180.50\",\n" +
		",,,\n"

	result, err := importCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Tiers) != 2 || result.Tiers[0] != "Standard" || result.Tiers[1] != "Premium" {
		t.Fatalf("tiers=%v", result.Tiers)
	}
	if got := result.Catalog["B15"]["Standard"]; got != 200 {
		t.Fatalf("B15 Standard=%v", got)
	}
	if got := result.Catalog["B15"]["Premium"]; got != 260 {
		t.Fatalf("B15 Premium=%v", got)
	}
	if got := result.Catalog["SB33"]["Standard"]; got != 310 {
		t.Fatalf("SB33=%v", got)
	}
	if _, ok := result.Catalog["SB33"]["Premium"]; ok {
		t.Fatal("dash cell imported as price")
	}
	if got := result.Catalog["W-3030"]["Standard"]; got != 1180.5 {
		t.Fatalf("W-3030=%v", got)
	}
}

func TestImportCSVNoHeader(t *testing.T) {
	if _, err := importCSV(strings.NewReader("just,some,cells\n1,2,3\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestImportPriceBookUnsupported(t *testing.T) {
	if _, err := ImportPriceBook("book.txt"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFindHeaderRow(t *testing.T) {
	rows := [][]string{
		{"Price Book", ""},
		{"", ""},
		{"Item Code", "List Price"},
		{"B15", "200"},
	}
	r, c := findHeaderRow(rows)
	if r != 2 || c != 0 {
		t.Fatalf("got row=%d col=%d", r, c)
	}
}
