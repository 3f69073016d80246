package util

import "testing"

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"b15", "B15"},
		{" SB 33 ", "SB33"},
		{"$33", "B33"},
		{"B@9", "B09"},
		{"BD1015", "BD15"},
		{"B015", "B15"},
		{"W1230", "W1230"},
		{"SB33-2B", "SB33"},
		{"B15 (L)", "B15"},
		{"W3012 X 24 DP", "W3012"},
		{"S.B.33", "SB33"},
		{"VDB27AH-3", "VDB27"},
		{"B15AH", "B15"},
		{"SB36HD", "SB36"},
		{"DHW24", "DW24"},
		{"B15L", "B15"},
		{"B15-R", "B15"},
		{"W3630LH", "W3630"},
		{"B33FE", "B33"},
		// Stacked markers: each strip can expose the next one.
		{"SB33-2B (L)", "SB33"},
		{"B15LHRH", "B15"},
		{"W3030HDHD", "W3030"},
		{"B33FEFE", "B33"},
		{"SB36HDLH", "SB36"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeCode(c.in); got != c.want {
			t.Fatalf("NormalizeCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeCodeIdempotent(t *testing.T) {
	inputs := []string{
		"b15", "SB 33", "$33", "BD1015", "VDB27AH-3", "W3012 X 24 DP",
		"B15 (L)", "DHW24", "W3630LH", "S.B.33", "B15-R", "PNL96",
		"SB33-2B (L)", "B15LHRH", "W3030HDHD", "B33FEFE", "SB36HDLH",
		"VDB27AH-3 (R)", "SB33-2B-2B",
	}
	for _, in := range inputs {
		once := NormalizeCode(in)
		twice := NormalizeCode(once)
		if once != twice {
			t.Fatalf("NormalizeCode not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestLookupKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{" sb 33 ", "SB33"},
		{"B–15", "B-15"}, // en dash
		{"b15", "B15"},
		{"W 30 12", "W3012"},
	}
	for _, c := range cases {
		if got := LookupKey(c.in); got != c.want {
			t.Fatalf("LookupKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
