package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"cabquote/internal"
	"cabquote/internal/config"
	"cabquote/internal/storage"
)

func TestSmokeEmailToQuoteXLSX(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mfr := internal.Manufacturer{
		ID:   "mfr-1",
		Name: "Acme Cabinets",
		Tiers: []internal.PricingTier{
			{ID: "std", Name: "Standard", Multiplier: 1},
		},
		Catalog: internal.Catalog{
			"B15":   {"Standard": 200},
			"SB33":  {"Standard": 310},
			"W3012": {"Standard": 180},
		},
	}
	if err := db.UpsertManufacturer(mfr); err != nil {
		t.Fatal(err)
	}

	rawBlob, err := os.ReadFile(filepath.Join("testdata", "sample_quote.eml"))
	if err != nil {
		t.Fatal(err)
	}
	rawPath := filepath.Join(tmp, "fixture.eml")
	if err := os.WriteFile(rawPath, rawBlob, 0o644); err != nil {
		t.Fatal(err)
	}

	email, err := db.UpsertEmail("gmail", "<fixture-1@example.com>", "Quote request for kitchen cabinets", "builder@example.com", "2026-08-01T00:00:00Z", "hash", rawPath, "fetched")
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{
		QuoteManufacturer: "Acme Cabinets",
		QuoteTier:         "std",
		PricingFactor:     1,
		OutputDir:         tmp,
	}
	proc := NewProcessingService(db, cfg, zerolog.Nop())
	res, err := proc.ProcessEmail(email)
	if err != nil {
		t.Fatal(err)
	}
	if res.Priced != 3 {
		t.Fatalf("priced=%d", res.Priced)
	}

	lines, err := db.GetQuoteLineItems(res.QuoteID)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("lines=%d", len(lines))
	}
	if lines[1].OriginalCode != "SB33" || lines[1].Quantity != 2 || lines[1].TotalPrice != 620 {
		t.Fatalf("got %+v", lines[1])
	}

	out, err := proc.ExportQuote(email.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}

	quote, err := db.GetLatestQuoteForEmail(email.ID)
	if err != nil {
		t.Fatal(err)
	}
	if quote.Status != "exported" {
		t.Fatalf("status=%q", quote.Status)
	}
}

func TestProcessEmailSkipsNonQuote(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rawPath := filepath.Join(tmp, "note.eml")
	raw := "From: a@example.com\r\nSubject: Lunch\r\nContent-Type: text/plain\r\n\r\nsee you at noon\r\n"
	if err := os.WriteFile(rawPath, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	email, err := db.UpsertEmail("gmail", "<note-1@example.com>", "Lunch", "a@example.com", "2026-08-01T00:00:00Z", "hash2", rawPath, "fetched")
	if err != nil {
		t.Fatal(err)
	}

	proc := NewProcessingService(db, config.Config{QuoteManufacturer: "Acme Cabinets"}, zerolog.Nop())
	res, err := proc.ProcessEmail(email)
	if err != nil {
		t.Fatal(err)
	}
	if res.Priced != 0 {
		t.Fatalf("priced=%d", res.Priced)
	}

	row, err := db.GetEmailByID(email.ID)
	if err != nil {
		t.Fatal(err)
	}
	if row.Status != "skipped" {
		t.Fatalf("status=%q", row.Status)
	}
}
