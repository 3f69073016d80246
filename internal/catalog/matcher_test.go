package catalog

import (
	"strings"
	"testing"

	"cabquote/internal"
)

func testCatalog() internal.Catalog {
	return internal.Catalog{
		"B15":     {"Standard": 200, "Premium": 260},
		"SB33":    {"Standard": 310},
		"W-3030":  {"Standard": 180},
		"W3625":   {"Standard": 195},
		"VDB27-3": {"Standard": 540},
		"PNL96":   {"List Price": 120},
	}
}

func TestFindPriceExact(t *testing.T) {
	m := FindPrice("b15", testCatalog(), "Standard", true)
	if m == nil || m.Price != 200 || m.MatchedSKU != "B15" {
		t.Fatalf("got %+v", m)
	}
	if !strings.HasPrefix(m.Source, "Exact match") {
		t.Fatalf("source=%q", m.Source)
	}
}

func TestFindPriceHyphenInsensitive(t *testing.T) {
	m := FindPrice("B-15", testCatalog(), "Standard", true)
	if m == nil || m.Price != 200 || m.MatchedSKU != "B15" {
		t.Fatalf("got %+v", m)
	}
}

func TestFindPriceHyphenInserted(t *testing.T) {
	m := FindPrice("W3030", testCatalog(), "Standard", true)
	if m == nil || m.Price != 180 || m.MatchedSKU != "W-3030" {
		t.Fatalf("got %+v", m)
	}
}

func TestFindPriceNeighborHeight(t *testing.T) {
	// W3624 is not in the catalog; loose matching probes adjacent heights
	// and lands on W3625.
	m := FindPrice("W3624", testCatalog(), "Standard", false)
	if m == nil || m.Price != 195 || m.MatchedSKU != "W3625" {
		t.Fatalf("got %+v", m)
	}
}

func TestFindPriceStrictGatesLooseStrategies(t *testing.T) {
	if m := FindPrice("W3624", testCatalog(), "Standard", true); m != nil {
		t.Fatalf("strict mode matched: %+v", m)
	}
	if m := FindPrice("SB33XYZ", testCatalog(), "Standard", true); m != nil {
		t.Fatalf("strict mode matched: %+v", m)
	}
}

func TestFindPriceSuffixStrip(t *testing.T) {
	m := FindPrice("SB33XYZ", testCatalog(), "Standard", false)
	if m == nil || m.Price != 310 || m.MatchedSKU != "SB33" {
		t.Fatalf("got %+v", m)
	}
}

func TestFindPriceUnknown(t *testing.T) {
	if m := FindPrice("", testCatalog(), "Standard", false); m != nil {
		t.Fatalf("got %+v", m)
	}
	if m := FindPrice("UNKNOWN", testCatalog(), "Standard", false); m != nil {
		t.Fatalf("got %+v", m)
	}
	if m := FindPrice("ZZZ99", testCatalog(), "Standard", false); m != nil {
		t.Fatalf("got %+v", m)
	}
}

func TestResolveTierPrice(t *testing.T) {
	prices := internal.TierPrices{"Standard Overlay": 100, "Premium Overlay": 140}

	// Exact key.
	if p, c, ok := ResolveTierPrice(internal.TierPrices{"Standard": 90}, "Standard"); !ok || p != 90 || c != "Standard" {
		t.Fatalf("got %v %q %v", p, c, ok)
	}
	// Substring either direction, case-insensitive.
	if p, c, ok := ResolveTierPrice(prices, "premium"); !ok || p != 140 || c != "Premium Overlay" {
		t.Fatalf("got %v %q %v", p, c, ok)
	}
	// Single column always resolves.
	if p, c, ok := ResolveTierPrice(internal.TierPrices{"Whatever": 55}, "Standard"); !ok || p != 55 || c != "Whatever" {
		t.Fatalf("got %v %q %v", p, c, ok)
	}
	// "price"/"list" column fallback.
	multi := internal.TierPrices{"Notes Col": 1, "List Price": 120}
	if p, c, ok := ResolveTierPrice(multi, "Xyz"); !ok || p != 120 || c != "List Price" {
		t.Fatalf("got %v %q %v", p, c, ok)
	}
	// First sorted column as the last resort.
	last := internal.TierPrices{"Beta": 2, "Alpha": 1}
	if p, c, ok := ResolveTierPrice(last, "Xyz"); !ok || p != 1 || c != "Alpha" {
		t.Fatalf("got %v %q %v", p, c, ok)
	}
	// Only a column-less entry fails.
	if _, _, ok := ResolveTierPrice(internal.TierPrices{}, "Standard"); ok {
		t.Fatal("empty entry resolved")
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("m1"); ok {
		t.Fatal("unexpected hit")
	}
	c.Put("m1", internal.Catalog{"B15": {"Standard": 200}})
	cat, ok := c.Get("m1")
	if !ok || cat["B15"]["Standard"] != 200 {
		t.Fatalf("got %v %v", cat, ok)
	}
	c.Invalidate("m1")
	if _, ok := c.Get("m1"); ok {
		t.Fatal("hit after invalidate")
	}
}
