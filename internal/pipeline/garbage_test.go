package pipeline

import (
	"testing"

	"cabquote/internal"
)

func TestIsGarbage(t *testing.T) {
	cases := []struct {
		name string
		item internal.CabinetItem
		want bool
	}{
		{"empty", internal.CabinetItem{}, true},
		{"page footer", internal.CabinetItem{OriginalCode: "PAGE 2 OF 7"}, true},
		{"subtotal", internal.CabinetItem{OriginalCode: "SUBTOTAL", Description: "$4,500.00"}, true},
		{"tax line", internal.CabinetItem{Description: "Sales Tax 7.5%"}, true},
		{"signature", internal.CabinetItem{Description: "Signature ____"}, true},
		{"room header code", internal.CabinetItem{OriginalCode: "KITCHEN"}, true},
		{"room header desc", internal.CabinetItem{Description: "Laundry"}, true},
		{"appliance callout", internal.CabinetItem{Description: "Refrigerator by others"}, true},
		{"range callout", internal.CabinetItem{OriginalCode: "RANGE", Description: "36in gas range"}, true},
		{"sentence code", internal.CabinetItem{OriginalCode: "PLEASE CONFIRM ALL MEASUREMENTS PRIOR TO ORDERING ANY CABINETRY"}, true},
		{"normal base", internal.CabinetItem{OriginalCode: "B15", Description: "15in base"}, false},
		{"fridge panel", internal.CabinetItem{OriginalCode: "REP3696", Description: "Refrigerator end panel"}, false},
		{"fridge cabinet code", internal.CabinetItem{OriginalCode: "WDC2430", Description: "above refrigerator"}, false},
	}
	for _, c := range cases {
		if got := IsGarbage(c.item); got != c.want {
			t.Fatalf("%s: IsGarbage = %v, want %v", c.name, got, c.want)
		}
	}
}
