package internal

import "strings"

// CabinetType is the closed vocabulary of cabinet categories. Extraction and
// manual entry both funnel through ParseCabinetType so a misspelled or novel
// type can never leak past TypeUnknown.
type CabinetType string

const (
	TypeBase         CabinetType = "Base"
	TypeWall         CabinetType = "Wall"
	TypeTall         CabinetType = "Tall"
	TypeVanity       CabinetType = "Vanity"
	TypeFiller       CabinetType = "Filler"
	TypePanel        CabinetType = "Panel"
	TypeAccessory    CabinetType = "Accessory"
	TypeHardware     CabinetType = "Hardware"
	TypeAppliance    CabinetType = "Appliance"
	TypeModification CabinetType = "Modification"
	TypeUnknown      CabinetType = "Unknown"
)

func ParseCabinetType(input string) CabinetType {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "base":
		return TypeBase
	case "wall":
		return TypeWall
	case "tall", "utility", "pantry":
		return TypeTall
	case "vanity":
		return TypeVanity
	case "filler":
		return TypeFiller
	case "panel":
		return TypePanel
	case "accessory":
		return TypeAccessory
	case "hardware":
		return TypeHardware
	case "appliance":
		return TypeAppliance
	case "modification", "mod":
		return TypeModification
	default:
		return TypeUnknown
	}
}

// ClassifyCode infers a cabinet type from a normalized SKU prefix.
// Longer prefixes are checked first so "WF" never reads as "W".
func ClassifyCode(code string) CabinetType {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return TypeUnknown
	}

	prefixes := []struct {
		prefix string
		typ    CabinetType
	}{
		{"PNL", TypePanel},
		{"BEP", TypePanel},
		{"TEP", TypePanel},
		{"REP", TypePanel},
		{"WDC", TypeWall},
		{"WDH", TypeWall},
		{"VSB", TypeVanity},
		{"VDB", TypeVanity},
		{"BBC", TypeBase},
		{"3DB", TypeBase},
		{"ACC", TypeAccessory},
		{"ROT", TypeAccessory},
		{"KIT", TypeAccessory},
		{"BF", TypeFiller},
		{"WF", TypeFiller},
		{"TF", TypeFiller},
		{"BP", TypePanel},
		{"SB", TypeBase},
		{"DB", TypeBase},
		{"DW", TypeAppliance},
		{"VB", TypeVanity},
		{"U", TypeTall},
		{"T", TypeTall},
		{"W", TypeWall},
		{"B", TypeBase},
		{"F", TypeFiller},
		{"V", TypeVanity},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(c, p.prefix) {
			return p.typ
		}
	}
	return TypeUnknown
}

// Modification is a per-item surcharge already priced at extraction time.
type Modification struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CabinetItem is a single extracted cabinet/hardware entry. NormalizedCode is
// always re-derivable from OriginalCode and never authoritative on its own.
type CabinetItem struct {
	ID             string         `json:"id"`
	OriginalCode   string         `json:"originalCode"`
	NormalizedCode string         `json:"normalizedCode"`
	Type           CabinetType    `json:"type"`
	Description    string         `json:"description"`
	Width          float64        `json:"width"`
	Height         float64        `json:"height"`
	Depth          float64        `json:"depth"`
	Quantity       int            `json:"quantity"`
	Room           string         `json:"room"`
	Modifications  []Modification `json:"modifications,omitempty"`
	SourcePage     int            `json:"sourcePage,omitempty"`
	IsManual       bool           `json:"isManual,omitempty"`
	ExtractedPrice float64        `json:"extractedPrice,omitempty"`
	Meta           map[string]any `json:"-"`
}

// TierPrices maps a tier (price column) name to a unit list price.
type TierPrices map[string]float64

// Catalog maps a normalized SKU to its per-tier prices. It is treated as an
// immutable snapshot for the duration of one pricing pass.
type Catalog map[string]TierPrices

type PricingTier struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Collection string  `json:"collection,omitempty"`
}

type OptionCategory string

const (
	CategorySeries       OptionCategory = "Series"
	CategoryDoor         OptionCategory = "Door"
	CategoryFinish       OptionCategory = "Finish"
	CategoryDrawer       OptionCategory = "Drawer"
	CategoryHinge        OptionCategory = "Hinge"
	CategoryConstruction OptionCategory = "Construction"
	CategoryPrintedEnd   OptionCategory = "PrintedEnd"
	CategoryCollection   OptionCategory = "Collection"
	CategoryDoorStyle    OptionCategory = "DoorStyle"
	CategoryOther        OptionCategory = "Other"
)

func ParseOptionCategory(input string) OptionCategory {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "series":
		return CategorySeries
	case "door":
		return CategoryDoor
	case "finish":
		return CategoryFinish
	case "drawer":
		return CategoryDrawer
	case "hinge":
		return CategoryHinge
	case "construction":
		return CategoryConstruction
	case "printedend", "printed_end", "printed end":
		return CategoryPrintedEnd
	case "collection":
		return CategoryCollection
	case "doorstyle", "door_style", "door style":
		return CategoryDoorStyle
	default:
		return CategoryOther
	}
}

type OptionPricingType string

const (
	PricingFixed      OptionPricingType = "fixed"
	PricingPercentage OptionPricingType = "percentage"
	PricingIncluded   OptionPricingType = "included"
)

// ManufacturerOption is a chargeable or informational catalog attribute
// (door style, finish, hinge upgrade, ...). For percentage options the
// stored Price keeps the catalog's own convention: a value <=1 is a
// fraction, anything larger is a whole-number percent.
type ManufacturerOption struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Category    OptionCategory    `json:"category"`
	Section     string            `json:"section,omitempty"`
	PricingType OptionPricingType `json:"pricingType"`
	Price       float64           `json:"price"`
	Description string            `json:"description,omitempty"`
}

// Manufacturer is the pricing context: tiers, options and the SKU catalog.
type Manufacturer struct {
	ID                    string               `json:"id"`
	Name                  string               `json:"name"`
	BasePricingMultiplier float64              `json:"basePricingMultiplier"`
	Tiers                 []PricingTier        `json:"tiers"`
	Series                []string             `json:"series,omitempty"`
	Options               []ManufacturerOption `json:"options,omitempty"`
	Catalog               Catalog              `json:"catalog"`
	SKUCount              int                  `json:"skuCount"`
}

// TierByID resolves a tier selection to its catalog column name. An unknown
// id falls back to the id itself: single-column catalogs often carry no tier
// list at all and the matcher's fuzzy column resolution absorbs the rest.
func (m Manufacturer) TierByID(tierID string) PricingTier {
	for _, t := range m.Tiers {
		if t.ID == tierID || strings.EqualFold(t.Name, tierID) {
			return t
		}
	}
	return PricingTier{ID: tierID, Name: tierID, Multiplier: 1}
}

// ProjectSpecs are the selected specs for a project or a single room.
type ProjectSpecs struct {
	DoorStyle         string   `json:"doorStyle,omitempty"`
	Finish            string   `json:"finish,omitempty"`
	TierID            string   `json:"tierId,omitempty"`
	SelectedOptionIDs []string `json:"selectedOptionIds,omitempty"`
}

// ProjectFinancials carries the cost and margin controls. Margins accept
// both fractions (0.35) and whole percents (35); anything >1 is treated as
// a percent.
type ProjectFinancials struct {
	PricingFactor   float64            `json:"pricingFactor,omitempty"`
	GlobalMargin    float64            `json:"globalMargin,omitempty"`
	RoomFactors     map[string]float64 `json:"roomFactors,omitempty"`
	DiscountRate    float64            `json:"discountRate,omitempty"`
	TaxRate         float64            `json:"taxRate,omitempty"`
	ShippingCost    float64            `json:"shippingCost,omitempty"`
	FuelSurcharge   float64            `json:"fuelSurcharge,omitempty"`
	MiscCharge      float64            `json:"miscCharge,omitempty"`
	CategoryMargins map[string]float64 `json:"categoryMargins,omitempty"`
}

// AppliedOption logs one option charge folded into a line item.
type AppliedOption struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// PricingLineItem is the priced output for one CabinetItem. Source is always
// populated, "NOT FOUND" included, so every row carries its provenance.
type PricingLineItem struct {
	CabinetItem
	BasePrice      float64         `json:"basePrice"`
	OptionsPrice   float64         `json:"optionsPrice"`
	UnitCost       float64         `json:"unitCost"`
	FinalUnitPrice float64         `json:"finalUnitPrice"`
	TotalPrice     float64         `json:"totalPrice"`
	TierName       string          `json:"tierName"`
	Source         string          `json:"source"`
	AppliedOptions []AppliedOption `json:"appliedOptions,omitempty"`
}

// PriceMatch is a successful catalog lookup.
type PriceMatch struct {
	Price      float64 `json:"price"`
	Source     string  `json:"source"`
	MatchedSKU string  `json:"matchedSku"`
}

// FetchedMailMessage is a raw quote-request email pulled from a provider.
type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

// EmailRow mirrors the emails table: one stored quote-request message.
type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

// QuoteRow mirrors the quotes table: one priced run over an item set.
type QuoteRow struct {
	ID             int
	TraceID        string
	EmailID        *int
	ManufacturerID string
	TierName       string
	Status         string
	CreatedAt      string
}
