package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cabquote/internal"
	"cabquote/internal/catalog"
	"cabquote/internal/config"
	"cabquote/internal/storage"
)

// ProcessingService turns stored quote-request emails into priced quotes.
// It caches catalog snapshots between emails so a listener cycle loads a
// manufacturer's price book once, not per message.
type ProcessingService struct {
	db       *storage.DB
	cfg      config.Config
	log      zerolog.Logger
	catalogs *catalog.Cache
	mfrs     map[string]internal.Manufacturer
}

func NewProcessingService(db *storage.DB, cfg config.Config, log zerolog.Logger) *ProcessingService {
	return &ProcessingService{
		db:       db,
		cfg:      cfg,
		log:      log,
		catalogs: catalog.NewCache(),
		mfrs:     map[string]internal.Manufacturer{},
	}
}

type ProcessResult struct {
	EmailID int
	QuoteID int64
	TraceID string
	Priced  int
}

func (s *ProcessingService) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	email, err := s.db.MustEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessEmail(email)
}

func (s *ProcessingService) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedEmails := 0
	pricedLines := 0
	for _, email := range pending {
		if provider != "" && email.Provider != provider {
			continue
		}
		res, err := s.ProcessEmail(email)
		if err != nil {
			return processedEmails, pricedLines, err
		}
		processedEmails++
		pricedLines += res.Priced
	}
	return processedEmails, pricedLines, nil
}

func (s *ProcessingService) ProcessEmail(email internal.EmailRow) (ProcessResult, error) {
	start := time.Now()
	trace := uuid.NewString()
	log := s.log.With().Str("traceId", trace).Int("emailId", email.ID).Logger()

	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	items, subject, text, attachmentNames, err := ExtractItemsFromEmailRaw(raw)
	if err != nil {
		return ProcessResult{}, err
	}

	detect := DetectQuoteRequest(firstNonEmpty(subject, email.Subject), text, "", attachmentNames)
	if err := s.db.ClearEmailQuotes(email.ID); err != nil {
		return ProcessResult{}, err
	}

	isQuote := detect.IsQuoteRequest
	if s.cfg.DetectThreshold > 0 {
		isQuote = detect.Score >= s.cfg.DetectThreshold
	}
	if !isQuote {
		log.Info().Float64("score", detect.Score).Str("reason", detect.Reason).Msg("not a quote request, skipping")
		_ = s.db.UpdateEmailStatus(email.ID, "skipped")
		_ = s.db.InsertRun(trace, email.ID, timings(start), map[string]int{"extracted": 0, "priced": 0, "notFound": 0})
		return ProcessResult{EmailID: email.ID, TraceID: trace}, nil
	}

	mfr, err := s.manufacturer(s.cfg.QuoteManufacturer)
	if err != nil {
		return ProcessResult{}, err
	}

	fin := &internal.ProjectFinancials{
		PricingFactor: s.cfg.PricingFactor,
		GlobalMargin:  s.cfg.GlobalMargin,
		DiscountRate:  s.cfg.DiscountRate,
		TaxRate:       s.cfg.TaxRate,
		ShippingCost:  s.cfg.ShippingCost,
		FuelSurcharge: s.cfg.FuelSurcharge,
	}
	lines := CalculatePricing(items, mfr, s.cfg.QuoteTier, nil, fin, nil)

	tier := mfr.TierByID(s.cfg.QuoteTier)
	emailID := email.ID
	quoteID, err := s.db.InsertQuote(trace, &emailID, mfr.ID, tier.Name, "priced")
	if err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.InsertLineItems(quoteID, lines); err != nil {
		return ProcessResult{}, err
	}

	notFound := 0
	for _, line := range lines {
		if line.Source == "NOT FOUND" {
			notFound++
		}
	}

	if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}
	_ = s.db.InsertRun(trace, email.ID, timings(start), map[string]int{
		"extracted": len(items),
		"priced":    len(lines),
		"notFound":  notFound,
	})

	log.Info().Int("extracted", len(items)).Int("priced", len(lines)).Int("notFound", notFound).Msg("email priced")
	return ProcessResult{EmailID: email.ID, QuoteID: quoteID, TraceID: trace, Priced: len(lines)}, nil
}

// ExportQuote writes the latest quote for an email to OUTPUT_DIR.
func (s *ProcessingService) ExportQuote(emailID int) (string, error) {
	quote, err := s.db.GetLatestQuoteForEmail(emailID)
	if err != nil {
		return "", err
	}
	if quote == nil {
		return "", fmt.Errorf("no quote for email %d", emailID)
	}
	lines, err := s.db.GetQuoteLineItems(int64(quote.ID))
	if err != nil {
		return "", err
	}

	fin := &internal.ProjectFinancials{
		DiscountRate:  s.cfg.DiscountRate,
		TaxRate:       s.cfg.TaxRate,
		ShippingCost:  s.cfg.ShippingCost,
		FuelSurcharge: s.cfg.FuelSurcharge,
	}
	outputPath := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("quote_%d_%s.xlsx", emailID, quote.TraceID))
	if err := ExportLineItemsToXLSX(lines, fin, outputPath); err != nil {
		return "", err
	}
	if err := s.db.UpdateQuoteStatus(int64(quote.ID), "exported"); err != nil {
		return "", err
	}
	return outputPath, nil
}

// InvalidateCatalog drops the cached price book so the next run reloads it.
func (s *ProcessingService) InvalidateCatalog(name string) {
	s.catalogs.Invalidate(name)
	delete(s.mfrs, name)
}

func (s *ProcessingService) manufacturer(name string) (internal.Manufacturer, error) {
	if name == "" {
		return internal.Manufacturer{}, fmt.Errorf("no manufacturer configured (QUOTE_MANUFACTURER)")
	}
	if m, ok := s.mfrs[name]; ok {
		if cat, hit := s.catalogs.Get(m.ID); hit {
			m.Catalog = cat
			return m, nil
		}
	}

	m, err := s.db.GetManufacturerByName(name)
	if err != nil {
		return internal.Manufacturer{}, err
	}
	if m == nil {
		return internal.Manufacturer{}, fmt.Errorf("manufacturer not found: %s", name)
	}
	s.catalogs.Put(m.ID, m.Catalog)
	s.mfrs[name] = *m
	return *m, nil
}

func timings(start time.Time) map[string]float64 {
	return map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
