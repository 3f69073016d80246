package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"cabquote/internal"
	"cabquote/internal/catalog"
	"cabquote/internal/config"
	"cabquote/internal/connectors"
	gmailconnector "cabquote/internal/connectors/gmail"
	imapconnector "cabquote/internal/connectors/imap"
	"cabquote/internal/listener"
	"cabquote/internal/pipeline"
	"cabquote/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	logger := config.SetupLogger(cfg)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "catalog:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "price book path (.xlsx|.xls|.csv)")
		name := fs.String("manufacturer", "", "manufacturer name")
		multiplier := fs.Float64("multiplier", 1, "base pricing multiplier")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" || strings.TrimSpace(*name) == "" {
			must(fmt.Errorf("--file and --manufacturer are required"))
		}
		result, err := catalog.ImportPriceBook(*file)
		must(err)
		mfr := manufacturerFromImport(db, *name, *multiplier, result)
		must(db.UpsertManufacturer(mfr))
		fmt.Printf("imported %d SKUs, tiers=%s for %s\n", len(mfr.Catalog), strings.Join(result.Tiers, ","), mfr.Name)
	case "catalog:list":
		names, err := db.ListManufacturers()
		must(err)
		if len(names) == 0 {
			fmt.Println("no manufacturers imported")
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
	case "quote:run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "schedule file path")
		inType := fs.String("type", "", "xlsx|pdf|html|text")
		name := fs.String("manufacturer", cfg.QuoteManufacturer, "manufacturer name")
		tier := fs.String("tier", cfg.QuoteTier, "pricing tier id or name")
		factor := fs.Float64("factor", cfg.PricingFactor, "pricing factor applied to list price")
		margin := fs.Float64("margin", cfg.GlobalMargin, "global margin (0.35 or 35)")
		output := fs.String("output", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *inType == "" || *output == "" {
			must(fmt.Errorf("--input --type --output are required"))
		}

		items, err := pipeline.ExtractItemsFromInput(*inType, *input)
		must(err)
		mfr, err := db.GetManufacturerByName(*name)
		must(err)
		if mfr == nil {
			must(fmt.Errorf("manufacturer not found: %s", *name))
		}

		fin := &internal.ProjectFinancials{
			PricingFactor: *factor,
			GlobalMargin:  *margin,
			DiscountRate:  cfg.DiscountRate,
			TaxRate:       cfg.TaxRate,
			ShippingCost:  cfg.ShippingCost,
			FuelSurcharge: cfg.FuelSurcharge,
		}
		lines := pipeline.CalculatePricing(items, *mfr, *tier, nil, fin, nil)
		must(pipeline.ExportLineItemsToXLSX(lines, fin, *output))

		notFound := 0
		for _, line := range lines {
			if line.Source == "NOT FOUND" {
				notFound++
			}
		}
		fmt.Printf("quote done items=%d priced=%d notFound=%d output=%s\n", len(items), len(lines), notFound, *output)
	case "quote:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg, logger)
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			fmt.Printf("processed email id=%d lines=%d trace=%s\n", res.EmailID, res.Priced, res.TraceID)
			return
		}
		processedEmails, pricedLines, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending emails=%d lines=%d\n", processedEmails, pricedLines)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		emailID := fs.Int("emailId", 0, "internal email id")
		_ = fs.Parse(os.Args[2:])
		if *emailID == 0 {
			must(fmt.Errorf("--emailId is required"))
		}
		processor := pipeline.NewProcessingService(db, cfg, logger)
		path, err := processor.ExportQuote(*emailID)
		must(err)
		fmt.Printf("exported quote for emailId=%d to %s\n", *emailID, path)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
	case "mail:listen":
		s := listener.NewService(db, cfg, logger)
		must(s.Run(context.Background()))
	default:
		usage()
		os.Exit(1)
	}
}

func manufacturerFromImport(db *storage.DB, name string, multiplier float64, result catalog.ImportResult) internal.Manufacturer {
	id := name
	if existing, err := db.GetManufacturerByName(name); err == nil && existing != nil {
		id = existing.ID
	} else {
		id = uuid.NewString()
	}

	tiers := make([]internal.PricingTier, 0, len(result.Tiers))
	for _, tierName := range result.Tiers {
		tiers = append(tiers, internal.PricingTier{ID: tierName, Name: tierName, Multiplier: 1})
	}

	return internal.Manufacturer{
		ID:                    id,
		Name:                  name,
		BasePricingMultiplier: multiplier,
		Tiers:                 tiers,
		Catalog:               result.Catalog,
		SKUCount:              len(result.Catalog),
	}
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: cabquote <command>")
	fmt.Println("commands:")
	fmt.Println("  catalog:import --file=pricebook.xlsx --manufacturer=\"Acme Cabinets\" [--multiplier=1]")
	fmt.Println("  catalog:list")
	fmt.Println("  quote:run --input=schedule.pdf --type=xlsx|pdf|html|text --output=quote.xlsx [--manufacturer=...] [--tier=...] [--factor=0.45] [--margin=0.35]")
	fmt.Println("  quote:process --provider=gmail|imap [--messageId=...] [--batch=20]")
	fmt.Println("  export:xlsx --emailId=1")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:listen")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
