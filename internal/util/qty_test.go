package util

import "testing"

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"B15 base cabinet QTY: 3", 3},
		{"B15 qty 2", 2},
		{"SB33 4 ea", 4},
		{"W3012 wall cabinet 2", 2},
		{"B15", 1},
		{"VDB24 drawer base", 1},
	}
	for _, c := range cases {
		if got := ParseQuantity(c.in); got != c.want {
			t.Fatalf("ParseQuantity(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseDimensions(t *testing.T) {
	w, h, d := ParseDimensions(`15"W x 34.5"H x 24"D`)
	if w != 15 || h != 34.5 || d != 24 {
		t.Fatalf("got %v %v %v", w, h, d)
	}
	w, h, d = ParseDimensions("wall cab 30 x 12")
	if w != 30 || h != 12 || d != 0 {
		t.Fatalf("got %v %v %v", w, h, d)
	}
	w, h, d = ParseDimensions("no dims here")
	if w != 0 || h != 0 || d != 0 {
		t.Fatalf("got %v %v %v", w, h, d)
	}
}

func TestParseMoney(t *testing.T) {
	if got := ParseMoney("list $1,234.50 each"); got != 1234.5 {
		t.Fatalf("got %v", got)
	}
	if got := ParseMoney("$89"); got != 89 {
		t.Fatalf("got %v", got)
	}
	if got := ParseMoney("no price"); got != 0 {
		t.Fatalf("got %v", got)
	}
}
