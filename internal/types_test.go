package internal

import "testing"

func TestClassifyCode(t *testing.T) {
	cases := []struct {
		code string
		want CabinetType
	}{
		{"B15", TypeBase},
		{"SB33", TypeBase},
		{"DB24", TypeBase},
		{"3DB18", TypeBase},
		{"BBC36", TypeBase},
		{"W3012", TypeWall},
		{"WDC2430", TypeWall},
		{"WDH2430", TypeWall},
		{"WF3", TypeFiller},
		{"BF3", TypeFiller},
		{"F3", TypeFiller},
		{"VSB30", TypeVanity},
		{"VDB24", TypeVanity},
		{"VB24", TypeVanity},
		{"V2421", TypeVanity},
		{"U189624", TypeTall},
		{"T1884", TypeTall},
		{"PNL96", TypePanel},
		{"BEP", TypePanel},
		{"TEP", TypePanel},
		{"REP", TypePanel},
		{"BP24", TypePanel},
		{"DW24", TypeAppliance},
		{"ACC101", TypeAccessory},
		{"ROT18", TypeAccessory},
		{"KIT5", TypeAccessory},
		{"", TypeUnknown},
		{"XYZ", TypeUnknown},
	}
	for _, c := range cases {
		if got := ClassifyCode(c.code); got != c.want {
			t.Fatalf("ClassifyCode(%q) = %s, want %s", c.code, got, c.want)
		}
	}
}

func TestParseCabinetType(t *testing.T) {
	if got := ParseCabinetType(" Base "); got != TypeBase {
		t.Fatalf("got %s", got)
	}
	if got := ParseCabinetType("pantry"); got != TypeTall {
		t.Fatalf("got %s", got)
	}
	if got := ParseCabinetType("mod"); got != TypeModification {
		t.Fatalf("got %s", got)
	}
	if got := ParseCabinetType("whatever"); got != TypeUnknown {
		t.Fatalf("got %s", got)
	}
}

func TestTierByID(t *testing.T) {
	m := Manufacturer{Tiers: []PricingTier{
		{ID: "t1", Name: "Standard", Multiplier: 1},
		{ID: "t2", Name: "Premium", Multiplier: 1.2},
	}}
	if got := m.TierByID("t2"); got.Name != "Premium" {
		t.Fatalf("got %+v", got)
	}
	if got := m.TierByID("standard"); got.Name != "Standard" {
		t.Fatalf("got %+v", got)
	}
	// Unknown ids pass through so single-column catalogs still resolve.
	if got := m.TierByID("List"); got.Name != "List" || got.Multiplier != 1 {
		t.Fatalf("got %+v", got)
	}
}
