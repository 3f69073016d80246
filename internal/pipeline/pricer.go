package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"cabquote/internal"
	"cabquote/internal/catalog"
	"cabquote/internal/util"
)

// typePriority pins the output ordering of line items. Anything not listed
// sorts after Modification.
var typePriority = map[internal.CabinetType]int{
	internal.TypeBase:         0,
	internal.TypeWall:         1,
	internal.TypeTall:         2,
	internal.TypePanel:        3,
	internal.TypeFiller:       4,
	internal.TypeAccessory:    5,
	internal.TypeModification: 6,
}

const unlistedPriority = 7

// CalculatePricing prices a set of extracted items against a manufacturer
// catalog. It never fails: garbage rows are dropped, unmatched SKUs come
// back as zero-priced rows tagged "NOT FOUND" for manual correction, and
// identical inputs always produce identical output.
func CalculatePricing(
	items []internal.CabinetItem,
	mfr internal.Manufacturer,
	tierID string,
	specs *internal.ProjectSpecs,
	fin *internal.ProjectFinancials,
	roomSpecs map[string]*internal.ProjectSpecs,
) []internal.PricingLineItem {
	out := make([]internal.PricingLineItem, 0, len(items))

	for _, item := range items {
		if IsGarbage(item) {
			continue
		}

		effective := mergeSpecs(specs, roomSpecs[item.Room])
		effTierID := tierID
		if effective != nil && effective.TierID != "" {
			effTierID = effective.TierID
		}
		tier := mfr.TierByID(effTierID)
		options := activeOptions(mfr, effective)

		line := priceItem(item, mfr, tier.Name, options, fin)
		out = append(out, line)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := priorityOf(out[i].Type), priorityOf(out[j].Type)
		if pi != pj {
			return pi < pj
		}
		return util.NaturalCompare(out[i].OriginalCode, out[j].OriginalCode) < 0
	})

	return out
}

func priceItem(
	item internal.CabinetItem,
	mfr internal.Manufacturer,
	tierName string,
	options []internal.ManufacturerOption,
	fin *internal.ProjectFinancials,
) internal.PricingLineItem {
	line := internal.PricingLineItem{CabinetItem: item, TierName: tierName}
	line.NormalizedCode = util.NormalizeCode(item.OriginalCode)
	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	optionsPrice := 0.0
	applied := []internal.AppliedOption{}

	for _, mod := range item.Modifications {
		optionsPrice += mod.Price
		applied = append(applied, internal.AppliedOption{Name: mod.Description, Price: mod.Price})
	}

	for _, opt := range options {
		if opt.PricingType != internal.PricingFixed || !optionApplies(opt, item) {
			continue
		}
		optionsPrice += opt.Price
		applied = append(applied, internal.AppliedOption{Name: opt.Name, Price: opt.Price})
	}

	keys := GenerateSmartKeys(item)
	basePrice, source := resolveBasePrice(item, keys, mfr.Catalog, tierName)

	for _, opt := range options {
		if opt.PricingType != internal.PricingPercentage || !optionApplies(opt, item) {
			continue
		}
		frac := percentFraction(opt.Price)
		charge := frac * basePrice
		optionsPrice += charge
		applied = append(applied, internal.AppliedOption{
			Name:  fmt.Sprintf("%s (%g%%)", opt.Name, frac*100),
			Price: charge,
		})
	}

	factor := effectiveFactor(item.Room, mfr, fin)
	margin := effectiveMargin(tierName, fin)

	line.BasePrice = util.RoundWhole(basePrice)
	line.OptionsPrice = util.RoundWhole(optionsPrice)
	line.UnitCost = util.Round2((line.BasePrice + line.OptionsPrice) * factor)
	if margin >= 1 {
		// A margin of 100%+ would divide by zero or worse; collapse to cost.
		line.FinalUnitPrice = line.UnitCost
	} else {
		line.FinalUnitPrice = util.Round2(line.UnitCost / (1 - margin))
	}
	line.TotalPrice = util.Round2(line.FinalUnitPrice * float64(line.Quantity))
	line.Source = source
	line.AppliedOptions = applied

	return line
}

// resolveBasePrice runs the five matching passes in increasing looseness:
// original code strict, exact keys strict, similar keys strict, original
// code loose, then a whole-catalog prefix scan. A price the extractor read
// off the document is the last fallback before zero.
func resolveBasePrice(item internal.CabinetItem, keys SmartKeys, cat internal.Catalog, tierName string) (float64, string) {
	if m := catalog.FindPrice(item.OriginalCode, cat, tierName, true); m != nil {
		return m.Price, m.Source
	}

	for _, k := range keys.Exact {
		if m := catalog.FindPrice(k, cat, tierName, true); m != nil {
			return m.Price, fmt.Sprintf("Exact Match '%s'", k)
		}
	}

	for _, k := range keys.Similar {
		if m := catalog.FindPrice(k, cat, tierName, true); m != nil {
			return m.Price, fmt.Sprintf("Similar Match '%s'", k)
		}
	}

	if m := catalog.FindPrice(item.OriginalCode, cat, tierName, false); m != nil {
		return m.Price, m.Source
	}

	if sku, ok := prefixScan(item, cat); ok {
		if price, _, found := catalog.ResolveTierPrice(cat[sku], tierName); found {
			return price, fmt.Sprintf("Global Prefix Match '%s'", sku)
		}
	}

	if item.ExtractedPrice > 0 {
		return item.ExtractedPrice, "Extracted from PDF"
	}
	return 0, "NOT FOUND"
}

// prefixScan finds the shortest catalog key extending the normalized code
// by at most 3 characters. Keys are visited in sorted order so ties break
// the same way every run.
func prefixScan(item internal.CabinetItem, cat internal.Catalog) (string, bool) {
	want := util.LookupKey(util.NormalizeCode(item.OriginalCode))
	if len(want) < 2 {
		return "", false
	}

	skus := make([]string, 0, len(cat))
	for sku := range cat {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	best := ""
	bestLen := 0
	for _, sku := range skus {
		n := util.LookupKey(sku)
		if !strings.HasPrefix(n, want) || len(n)-len(want) > 3 {
			continue
		}
		if best == "" || len(n) < bestLen {
			best = sku
			bestLen = len(n)
		}
	}
	return best, best != ""
}

// optionApplies enforces the option applicability rules: drawer upgrades
// only touch base cabinets, hinge options never touch fillers or panels,
// wall/base-named options stay on their own type, and a long zero-priced
// "option" is descriptive catalog text rather than a surcharge.
func optionApplies(opt internal.ManufacturerOption, item internal.CabinetItem) bool {
	name := strings.ToLower(opt.Name)
	section := strings.ToLower(opt.Section)

	if (opt.Category == internal.CategoryDrawer || strings.Contains(section, "drawer")) && item.Type != internal.TypeBase {
		return false
	}
	if opt.Category == internal.CategoryHinge || strings.Contains(section, "hinge") {
		if item.Type == internal.TypeFiller || item.Type == internal.TypePanel {
			return false
		}
	}
	if strings.Contains(name, "wall") && item.Type != internal.TypeWall {
		return false
	}
	if strings.Contains(name, "base") && item.Type != internal.TypeBase {
		return false
	}
	if len(opt.Name) > 50 && opt.Price == 0 {
		return false
	}
	return true
}

func activeOptions(mfr internal.Manufacturer, specs *internal.ProjectSpecs) []internal.ManufacturerOption {
	if specs == nil || len(specs.SelectedOptionIDs) == 0 {
		return nil
	}
	selected := make(map[string]struct{}, len(specs.SelectedOptionIDs))
	for _, id := range specs.SelectedOptionIDs {
		selected[id] = struct{}{}
	}
	// Manufacturer order, not selection order, so output is stable.
	out := make([]internal.ManufacturerOption, 0, len(selected))
	for _, opt := range mfr.Options {
		if _, ok := selected[opt.ID]; ok {
			out = append(out, opt)
		}
	}
	return out
}

func mergeSpecs(global, room *internal.ProjectSpecs) *internal.ProjectSpecs {
	if room == nil {
		return global
	}
	if global == nil {
		return room
	}
	merged := *global
	if room.DoorStyle != "" {
		merged.DoorStyle = room.DoorStyle
	}
	if room.Finish != "" {
		merged.Finish = room.Finish
	}
	if room.TierID != "" {
		merged.TierID = room.TierID
	}
	if len(room.SelectedOptionIDs) > 0 {
		merged.SelectedOptionIDs = room.SelectedOptionIDs
	}
	return &merged
}

func effectiveFactor(room string, mfr internal.Manufacturer, fin *internal.ProjectFinancials) float64 {
	if fin != nil {
		if f, ok := fin.RoomFactors[room]; ok && f > 0 {
			return f
		}
		if fin.PricingFactor > 0 {
			return fin.PricingFactor
		}
	}
	if mfr.BasePricingMultiplier > 0 {
		return mfr.BasePricingMultiplier
	}
	return 1.0
}

func effectiveMargin(tierName string, fin *internal.ProjectFinancials) float64 {
	if fin == nil {
		return 0
	}
	margin := fin.GlobalMargin
	if m, ok := fin.CategoryMargins[tierName]; ok {
		margin = m
	}
	return percentFraction(margin)
}

// percentFraction keeps the legacy convention: a stored value above 1 is a
// whole-number percent. A genuine 150% surcharge therefore reads as 1.5%;
// existing catalogs depend on this, so it stays.
func percentFraction(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

func priorityOf(t internal.CabinetType) int {
	if p, ok := typePriority[t]; ok {
		return p
	}
	return unlistedPriority
}
