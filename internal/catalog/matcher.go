package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"regexp"

	"cabquote/internal"
	"cabquote/internal/util"
)

var (
	reTrailDigits = regexp.MustCompile(`^(.*[A-Z])(\d+)$`)
	reWallHeight  = regexp.MustCompile(`^(W\d{2})(\d{2})([0-9A-Z-]*)$`)
	reCoreCode    = regexp.MustCompile(`^([A-Z]{1,4}\d{2,5})`)
)

// FindPrice probes the catalog for sku through an ordered strategy cascade:
// exact, hyphen-insensitive, hyphen insertion, then (unless strict) wall
// neighbor heights, progressive suffix stripping and leading-core
// extraction. First success wins; nil means no match.
func FindPrice(sku string, entries internal.Catalog, tierName string, strict bool) *internal.PriceMatch {
	key := util.LookupKey(sku)
	if key == "" || key == "UNKNOWN" || len(entries) == 0 {
		return nil
	}

	if m := lookup(entries, key, tierName, "Exact match"); m != nil {
		return m
	}

	if dashless := strings.ReplaceAll(key, "-", ""); dashless != key {
		if m := lookup(entries, dashless, tierName, "Hyphen-insensitive match"); m != nil {
			return m
		}
	}

	if mm := reTrailDigits.FindStringSubmatch(key); mm != nil && !strings.Contains(key, "-") {
		if m := lookup(entries, mm[1]+"-"+mm[2], tierName, "Hyphen-inserted match"); m != nil {
			return m
		}
	}

	if strict {
		return nil
	}

	// Wall codes encode width+height; a plan often rounds the height to a
	// size the catalog doesn't carry, so probe the adjacent heights.
	if mm := reWallHeight.FindStringSubmatch(key); mm != nil {
		height, _ := strconv.Atoi(mm[2])
		for _, delta := range []int{1, -1, 2, -2} {
			probe := fmt.Sprintf("%s%02d", mm[1], height+delta)
			label := fmt.Sprintf("Neighbor height %+d match", delta)
			for _, cand := range []string{probe + mm[3], probe} {
				if m := lookup(entries, cand, tierName, label); m != nil {
					return m
				}
			}
		}
	}

	for l := len(key) - 1; l > 2; l-- {
		label := fmt.Sprintf("Fuzzy match (stripped %q)", key[l:])
		if m := lookup(entries, key[:l], tierName, label); m != nil {
			return m
		}
	}

	if mm := reCoreCode.FindStringSubmatch(key); mm != nil && mm[1] != key {
		if m := lookup(entries, mm[1], tierName, "Core code match"); m != nil {
			return m
		}
	}

	return nil
}

func lookup(entries internal.Catalog, key, tierName, strategy string) *internal.PriceMatch {
	prices, ok := entries[key]
	if !ok {
		return nil
	}
	price, column, ok := ResolveTierPrice(prices, tierName)
	if !ok {
		return nil
	}
	source := fmt.Sprintf("%s '%s'", strategy, key)
	if !strings.EqualFold(column, tierName) {
		source += fmt.Sprintf(" via column '%s'", column)
	}
	return &internal.PriceMatch{Price: price, Source: source, MatchedSKU: key}
}

// ResolveTierPrice picks the price column for a requested tier name. Tier
// names drift between price books, so after an exact hit the fallbacks are:
// case-insensitive substring either direction, the only column of a
// single-column catalog, a column named like "price"/"list", then the first
// column in sorted order. Only an entry with no columns at all fails.
func ResolveTierPrice(prices internal.TierPrices, tierName string) (float64, string, bool) {
	if len(prices) == 0 {
		return 0, "", false
	}

	want := strings.TrimSpace(tierName)
	if p, ok := prices[want]; ok {
		return p, want, true
	}

	columns := make([]string, 0, len(prices))
	for c := range prices {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	if lower := strings.ToLower(want); lower != "" {
		for _, c := range columns {
			lc := strings.ToLower(c)
			if strings.Contains(lc, lower) || strings.Contains(lower, lc) {
				return prices[c], c, true
			}
		}
	}

	if len(columns) == 1 {
		return prices[columns[0]], columns[0], true
	}

	for _, c := range columns {
		lc := strings.ToLower(c)
		if strings.Contains(lc, "price") || strings.Contains(lc, "list") {
			return prices[c], c, true
		}
	}

	return prices[columns[0]], columns[0], true
}
