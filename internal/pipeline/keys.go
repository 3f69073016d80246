package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cabquote/internal"
	"cabquote/internal/util"
)

// SmartKeys holds the candidate SKUs for one item in probe order. Exact
// entries are high-confidence reinterpretations of the same cabinet;
// Similar entries are plausible substitutes (adjacent sizes, cross-family
// equivalents) used only when no exact key hits.
type SmartKeys struct {
	Exact   []string
	Similar []string
}

var (
	reLettersDigits     = regexp.MustCompile(`^([A-Z]+)(\d+)$`)
	reFamilyWidth       = regexp.MustCompile(`^(VSB|VDB|BBC|SB|DB|VB|B|W|S|V)(\d{2,3})$`)
	reTackedHeight      = regexp.MustCompile(`^([A-Z0-9]*\d)(\d{2})$`)
	reMidLetters        = regexp.MustCompile(`^([0-9]?[A-Z]+\d{2})([A-Z]+)(-\d+)$`)
	reLetterDigitLead   = regexp.MustCompile(`^([A-Z]+\d+)`)
	reSinkAbbrev        = regexp.MustCompile(`^S(\d+)$`)
	reFillerAbbrev      = regexp.MustCompile(`^(?:BF|WF)(\d+)`)
	reGenericFiller     = regexp.MustCompile(`^F(\d+)`)
	standardWidths      = []int{9, 12, 15, 18, 21, 24, 27, 30, 33, 36, 39, 42, 45, 48}
	endPanelFallbacks   = map[string][]string{"TEP": {"TEP", "PNL96"}, "BEP": {"BEP", "PNL34"}, "REP": {"REP", "PNL96"}}
	wallVanityPrefixes  = []string{"VDB", "VSB", "SB", "DB", "B"}
)

type keySet struct {
	seen    map[string]struct{}
	exact   []string
	similar []string
}

// add canonicalizes (case-folded, spaces removed) and records a key, then
// fans out its mechanical variants: the hyphenation twin, the pre-hyphen
// base for cosmetic suffixes, and (when asked) family neighbor widths.
// A key seen once is never re-added to either list.
func (k *keySet) add(key string, similar, expandNeighbors bool) {
	c := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(key), " ", ""))
	if len(c) < 2 {
		return
	}
	if _, ok := k.seen[c]; ok {
		return
	}
	k.seen[c] = struct{}{}
	if similar {
		k.similar = append(k.similar, c)
	} else {
		k.exact = append(k.exact, c)
	}

	if mm := reLettersDigits.FindStringSubmatch(c); mm != nil {
		k.add(mm[1]+"-"+mm[2], similar, false)
	}

	if i := strings.Index(c, "-"); i > 0 {
		suffix := c[i+1:]
		if len(suffix) <= 3 || isNumeric(suffix) || suffix == "BUTT" || suffix == "2B" {
			k.add(c[:i], similar, expandNeighbors)
		}
	}

	if !expandNeighbors {
		return
	}
	mm := reFamilyWidth.FindStringSubmatch(c)
	if mm == nil {
		return
	}
	prefix := mm[1]
	width, _ := strconv.Atoi(mm[2])
	for _, delta := range []int{-3, 3, -6, 6} {
		if w := width + delta; w > 0 {
			k.add(fmt.Sprintf("%s%d", prefix, w), true, false)
		}
	}
	switch prefix {
	case "SB":
		k.add(fmt.Sprintf("B%d", width), true, false)
		k.add(fmt.Sprintf("VSB%d", width), true, false)
	case "VSB":
		k.add(fmt.Sprintf("SB%d", width), true, false)
		k.add(fmt.Sprintf("VDB%d", width), true, false)
	}
}

// GenerateSmartKeys builds the ranked candidate key sets for one item. All
// rules run unconditionally; generation order is the match-priority order
// the pricing passes rely on, so reordering rules changes priced output.
func GenerateSmartKeys(item internal.CabinetItem) SmartKeys {
	ks := &keySet{seen: map[string]struct{}{}}

	raw := strings.TrimSpace(item.OriginalCode)
	rawKey := util.LookupKey(raw)
	norm := util.NormalizeCode(raw)

	// Direct codes first: the raw code, its normalized form, and whatever
	// normalized code the item already carried.
	ks.add(raw, false, true)
	ks.add(norm, false, true)
	if item.NormalizedCode != "" {
		ks.add(item.NormalizedCode, false, true)
		ks.add(util.NormalizeCode(item.NormalizedCode), false, true)
	}

	if strings.Contains(raw, " ") {
		if first := strings.Fields(raw)[0]; len(first) > 2 {
			ks.add(first, false, true)
		}
	}

	// VDB/VBD is the most common hand-written transposition.
	if strings.Contains(norm, "VDB") {
		ks.add(strings.ReplaceAll(norm, "VDB", "VBD"), false, false)
	}
	if strings.Contains(norm, "VBD") {
		ks.add(strings.ReplaceAll(norm, "VBD", "VDB"), false, false)
	}

	// A trailing 30..42 on an already-sized code reads as a tacked-on
	// height ("VDB2434" -> "VDB24").
	if mm := reTackedHeight.FindStringSubmatch(norm); mm != nil {
		if h, err := strconv.Atoi(mm[2]); err == nil && h >= 30 && h <= 42 {
			ks.add(mm[1], false, false)
		}
	}

	if strings.HasPrefix(norm, "WDH") {
		rest := norm[3:]
		for _, p := range wallVanityPrefixes {
			ks.add(p+rest, true, false)
		}
	}

	// "VDB27AH-3" -> "VDB27-3": drop the construction letters, keep the
	// drawer-count tail the normalizer removed.
	if mm := reMidLetters.FindStringSubmatch(rawKey); mm != nil {
		ks.add(mm[1]+mm[3], true, false)
	}

	if mm := reLetterDigitLead.FindStringSubmatch(norm); mm != nil && mm[1] != norm {
		ks.add(mm[1], true, false)
	}

	if strings.Count(rawKey, "-") > 1 {
		ks.add(strings.ReplaceAll(rawKey, "-", ""), false, false)
	}

	addDimensionKeys(ks, item)
	addAbbreviationKeys(ks, norm)

	// Any standard cabinet width within 2" of the coded width is a
	// plausible substitute.
	if mm := reLettersDigits.FindStringSubmatch(norm); mm != nil {
		if w, err := strconv.Atoi(mm[2]); err == nil && w < 100 {
			for _, std := range standardWidths {
				if std != w && abs(std-w) <= 2 {
					ks.add(mm[1]+strconv.Itoa(std), true, false)
				}
			}
		}
	}

	return SmartKeys{Exact: ks.exact, Similar: ks.similar}
}

// addDimensionKeys derives NKBA-style codes from the measured dimensions.
// These are exact-intent (the dimensions are read off the plan) and skip
// neighbor expansion.
func addDimensionKeys(ks *keySet, item internal.CabinetItem) {
	if item.Width <= 0 {
		return
	}
	w := strconv.Itoa(int(item.Width + 0.5))
	h := int(item.Height + 0.5)

	switch item.Type {
	case internal.TypeWall:
		hh := 30
		if h > 0 {
			hh = h
		}
		ks.add(fmt.Sprintf("W%s%d", w, hh), false, false)
		if item.Depth > 12 && h > 0 {
			ks.add(fmt.Sprintf("W%s%d-24", w, h), false, false)
		}
	case internal.TypeBase:
		ks.add("B"+w, false, false)
		ks.add("DB"+w, false, false)
		ks.add("SB"+w, false, false)
		ks.add("3DB"+w, false, false)
		ks.add("B"+w+"D", false, false)
	case internal.TypeTall:
		hh := 84
		if h > 0 {
			hh = h
		}
		ks.add(fmt.Sprintf("U%s%d", w, hh), false, false)
		ks.add(fmt.Sprintf("T%s%d", w, hh), false, false)
	case internal.TypeFiller:
		ks.add("F"+w, false, false)
	case internal.TypePanel:
		ks.add("PNL"+w, false, false)
		ks.add("BP"+w, false, false)
	case internal.TypeVanity, internal.TypeAccessory, internal.TypeHardware,
		internal.TypeAppliance, internal.TypeModification, internal.TypeUnknown:
		// No reliable dimension-derived family for these.
	}
}

// addAbbreviationKeys rewrites known abbreviation families the plans use
// for codes the catalogs spell differently.
func addAbbreviationKeys(ks *keySet, norm string) {
	if mm := reSinkAbbrev.FindStringSubmatch(norm); mm != nil {
		ks.add("SB"+mm[1], false, false)
	}

	if strings.HasPrefix(norm, "WDH") {
		rest := norm[3:]
		ks.add("WDC"+rest+"30", true, false)
		ks.add("W"+rest+"30", true, false)
	}

	if strings.HasPrefix(norm, "PDF") {
		rest := norm[3:]
		ks.add("PNL"+rest, false, false)
		ks.add("F"+rest, false, false)
	}

	if strings.HasPrefix(norm, "OUK") {
		rest := norm[3:]
		ks.add("ACC"+rest, true, false)
		ks.add("KIT"+rest, true, false)
	}

	if strings.HasPrefix(norm, "CE") {
		ks.add("CM"+norm[2:], false, false)
	}

	for family, literals := range endPanelFallbacks {
		if strings.HasPrefix(norm, family) {
			for _, lit := range literals {
				ks.add(lit, true, false)
			}
		}
	}

	if mm := reFillerAbbrev.FindStringSubmatch(norm); mm != nil {
		ks.add("F"+mm[1], false, false)
		ks.add("F3", true, false)
	}

	if strings.HasPrefix(norm, "F") && !strings.HasPrefix(norm, "FE") {
		if mm := reGenericFiller.FindStringSubmatch(norm); mm != nil {
			ks.add("BF"+mm[1], true, false)
			ks.add("WF"+mm[1], true, false)
		}
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
