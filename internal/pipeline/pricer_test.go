package pipeline

import (
	"reflect"
	"strings"
	"testing"

	"cabquote/internal"
)

func testManufacturer(cat internal.Catalog) internal.Manufacturer {
	return internal.Manufacturer{
		ID:   "mfr-1",
		Name: "Acme Cabinets",
		Tiers: []internal.PricingTier{
			{ID: "std", Name: "Standard", Multiplier: 1},
		},
		Catalog: cat,
	}
}

func item(code string) internal.CabinetItem {
	return internal.CabinetItem{
		OriginalCode:   code,
		NormalizedCode: code,
		Type:           internal.ClassifyCode(code),
		Quantity:       1,
	}
}

func TestPricingExactMatch(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"B15": {"Standard": 200}})
	fin := &internal.ProjectFinancials{PricingFactor: 1}

	lines := CalculatePricing([]internal.CabinetItem{item("B15")}, mfr, "std", nil, fin, nil)
	if len(lines) != 1 {
		t.Fatalf("len=%d", len(lines))
	}
	l := lines[0]
	if l.BasePrice != 200 || l.UnitCost != 200 || l.FinalUnitPrice != 200 || l.TotalPrice != 200 {
		t.Fatalf("got %+v", l)
	}
	if !strings.HasPrefix(l.Source, "Exact match") {
		t.Fatalf("source=%q", l.Source)
	}
	if l.TierName != "Standard" {
		t.Fatalf("tier=%q", l.TierName)
	}
}

func TestPricingSmartKeyMatch(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"VDB24": {"Standard": 540}})
	fin := &internal.ProjectFinancials{PricingFactor: 1}

	lines := CalculatePricing([]internal.CabinetItem{item("VDB24AH-3")}, mfr, "std", nil, fin, nil)
	if lines[0].BasePrice != 540 {
		t.Fatalf("got %+v", lines[0])
	}
	if !strings.Contains(lines[0].Source, "'VDB24'") {
		t.Fatalf("source=%q", lines[0].Source)
	}
}

func TestPricingNeighborHeightFallback(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"W3625": {"Standard": 195}})
	fin := &internal.ProjectFinancials{PricingFactor: 1}

	lines := CalculatePricing([]internal.CabinetItem{item("W3624")}, mfr, "std", nil, fin, nil)
	if lines[0].BasePrice != 195 {
		t.Fatalf("got %+v", lines[0])
	}
	if !strings.Contains(lines[0].Source, "Neighbor height") {
		t.Fatalf("source=%q", lines[0].Source)
	}
}

func TestPricingQuantityScaling(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"B15": {"Standard": 200}})
	fin := &internal.ProjectFinancials{PricingFactor: 1}

	it := item("B15")
	it.Quantity = 3
	lines := CalculatePricing([]internal.CabinetItem{it}, mfr, "std", nil, fin, nil)
	if lines[0].FinalUnitPrice != 200 || lines[0].TotalPrice != 600 {
		t.Fatalf("got %+v", lines[0])
	}
}

func TestPricingPercentageOption(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"B15": {"Standard": 200}})
	mfr.Options = []internal.ManufacturerOption{
		{ID: "o1", Name: "Premium finish", Category: internal.CategoryFinish, PricingType: internal.PricingPercentage, Price: 15},
	}
	fin := &internal.ProjectFinancials{PricingFactor: 1}
	specs := &internal.ProjectSpecs{SelectedOptionIDs: []string{"o1"}}

	lines := CalculatePricing([]internal.CabinetItem{item("B15")}, mfr, "std", specs, fin, nil)
	l := lines[0]
	// 15 is a whole-number percent: 15% of 200 = 30.
	if l.OptionsPrice != 30 || l.UnitCost != 230 {
		t.Fatalf("got %+v", l)
	}
	if len(l.AppliedOptions) != 1 || !strings.Contains(l.AppliedOptions[0].Name, "15%") {
		t.Fatalf("applied=%+v", l.AppliedOptions)
	}
}

func TestPricingFactorAndMargin(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"B15": {"Standard": 1000}})
	fin := &internal.ProjectFinancials{PricingFactor: 0.45, GlobalMargin: 0.35}

	lines := CalculatePricing([]internal.CabinetItem{item("B15")}, mfr, "std", nil, fin, nil)
	l := lines[0]
	if l.UnitCost != 450 {
		t.Fatalf("unitCost=%v", l.UnitCost)
	}
	if l.FinalUnitPrice != 692.31 {
		t.Fatalf("finalUnitPrice=%v", l.FinalUnitPrice)
	}
}

func TestPricingMarginAtOrAboveOneIsCost(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"B15": {"Standard": 1000}})
	fin := &internal.ProjectFinancials{PricingFactor: 0.45, GlobalMargin: 100}

	// 100 normalizes to 1.0, which would divide by zero; sell collapses to cost.
	lines := CalculatePricing([]internal.CabinetItem{item("B15")}, mfr, "std", nil, fin, nil)
	if lines[0].FinalUnitPrice != lines[0].UnitCost {
		t.Fatalf("got %+v", lines[0])
	}
}

func TestPricingRoomFactorOverride(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"B15": {"Standard": 200}})
	fin := &internal.ProjectFinancials{
		PricingFactor: 1,
		RoomFactors:   map[string]float64{"Kitchen": 0.5},
	}

	it := item("B15")
	it.Room = "Kitchen"
	lines := CalculatePricing([]internal.CabinetItem{it}, mfr, "std", nil, fin, nil)
	if lines[0].UnitCost != 100 {
		t.Fatalf("got %+v", lines[0])
	}
}

func TestPricingModificationsCharged(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"B15": {"Standard": 200}})
	fin := &internal.ProjectFinancials{PricingFactor: 1}

	it := item("B15")
	it.Modifications = []internal.Modification{{Description: "Cut down to 30in", Price: 50}}
	lines := CalculatePricing([]internal.CabinetItem{it}, mfr, "std", nil, fin, nil)
	if lines[0].OptionsPrice != 50 || lines[0].UnitCost != 250 {
		t.Fatalf("got %+v", lines[0])
	}
}

func TestPricingGarbageFiltered(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"B15": {"Standard": 200}})
	items := []internal.CabinetItem{
		item("B15"),
		{OriginalCode: "SUBTOTAL", Description: "SUBTOTAL $4,500"},
	}
	lines := CalculatePricing(items, mfr, "std", nil, nil, nil)
	if len(lines) != 1 || lines[0].OriginalCode != "B15" {
		t.Fatalf("got %+v", lines)
	}
}

func TestPricingNotFoundKeepsRow(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"B15": {"Standard": 200}})
	lines := CalculatePricing([]internal.CabinetItem{item("ZZZZ9")}, mfr, "std", nil, nil, nil)
	l := lines[0]
	if l.Source != "NOT FOUND" || l.BasePrice != 0 || l.FinalUnitPrice != 0 {
		t.Fatalf("got %+v", l)
	}
}

func TestPricingExtractedPriceFallback(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{"B15": {"Standard": 200}})
	it := item("ZZZZ9")
	it.ExtractedPrice = 123
	lines := CalculatePricing([]internal.CabinetItem{it}, mfr, "std", nil, nil, nil)
	if lines[0].BasePrice != 123 || lines[0].Source != "Extracted from PDF" {
		t.Fatalf("got %+v", lines[0])
	}
}

func TestPricingOutputOrdering(t *testing.T) {
	mfr := testManufacturer(internal.Catalog{
		"B15": {"Standard": 200}, "B9": {"Standard": 150}, "W3012": {"Standard": 180},
	})
	items := []internal.CabinetItem{item("W3012"), item("B15"), item("B9")}
	lines := CalculatePricing(items, mfr, "std", nil, nil, nil)
	got := []string{lines[0].OriginalCode, lines[1].OriginalCode, lines[2].OriginalCode}
	want := []string{"B9", "B15", "W3012"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order=%v", got)
	}
}

func TestPricingDeterministic(t *testing.T) {
	cat := internal.Catalog{
		"B15": {"Standard": 200}, "SB33": {"Standard": 310},
		"W3625": {"Standard": 195}, "VDB24": {"Standard": 540},
	}
	mfr := testManufacturer(cat)
	fin := &internal.ProjectFinancials{PricingFactor: 0.45, GlobalMargin: 0.35}
	items := []internal.CabinetItem{item("B15"), item("SB 33"), item("W3624"), item("VDB24AH-3"), item("ZZZZ9")}

	first := CalculatePricing(items, mfr, "std", nil, fin, nil)
	second := CalculatePricing(items, mfr, "std", nil, fin, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different output")
	}
}
