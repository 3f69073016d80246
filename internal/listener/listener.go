package listener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cabquote/internal/config"
	"cabquote/internal/connectors"
	gmailconnector "cabquote/internal/connectors/gmail"
	imapconnector "cabquote/internal/connectors/imap"
	"cabquote/internal/pipeline"
	"cabquote/internal/storage"
)

// Service is the fetch-price-export daemon: it polls a mailbox, prices
// every detected quote request and drops the priced workbook in the
// output directory.
type Service struct {
	db        *storage.DB
	cfg       config.Config
	log       zerolog.Logger
	processor *pipeline.ProcessingService
}

func NewService(db *storage.DB, cfg config.Config, log zerolog.Logger) *Service {
	return &Service{
		db:        db,
		cfg:       cfg,
		log:       log,
		processor: pipeline.NewProcessingService(db, cfg, log),
	}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(); err != nil {
			s.log.Error().Err(err).Msg("listener cycle failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle() error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return err
	}

	processedEmails, pricedLines, err := s.processor.ProcessPending(s.cfg.MailListenerProcessBatch, provider)
	if err != nil {
		return err
	}

	exported := 0
	if s.cfg.MailListenerAutoExport {
		exported, err = s.exportProcessed(provider)
		if err != nil {
			return err
		}
	}

	s.log.Info().
		Str("provider", provider).
		Int("fetched", fetchResult.Fetched).
		Int("stored", fetchResult.Stored).
		Int("processed", processedEmails).
		Int("pricedLines", pricedLines).
		Int("exported", exported).
		Msg("listener cycle done")
	return nil
}

func (s *Service) exportProcessed(provider string) (int, error) {
	emails, err := s.db.ListEmailsByStatus("processed", 200)
	if err != nil {
		return 0, err
	}

	exported := 0
	for _, email := range emails {
		if email.Provider != provider {
			continue
		}
		path, err := s.processor.ExportQuote(email.ID)
		if err != nil {
			return exported, err
		}
		s.log.Info().Int("emailId", email.ID).Str("path", path).Msg("quote exported")
		_ = s.db.UpdateEmailStatus(email.ID, "exported")
		exported++
	}
	return exported, nil
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}
