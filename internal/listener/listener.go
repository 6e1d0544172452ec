package listener

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"umzug/internal/config"
	"umzug/internal/connectors"
	gmailconnector "umzug/internal/connectors/gmail"
	imapconnector "umzug/internal/connectors/imap"
	"umzug/internal/intake"
	"umzug/internal/jotform"
	"umzug/internal/pipeline"
	"umzug/internal/storage"
)

// Service runs the notification poll loop: mailbox to submissions to
// orders to workbook exports.
type Service struct {
	db      *storage.DB
	cfg     config.Config
	jotform *jotform.Client
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg, jotform: jotform.NewClient(cfg)}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.FormListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.FormListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.FormListenerLabel, s.cfg.FormListenerFetchMax)
	if err != nil {
		return err
	}

	discovered, err := s.discoverSubmissions(ctx, provider)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessingService(s.db, s.cfg)
	processed, warnings, err := processor.ProcessPending(s.cfg.FormListenerProcessBatch)
	if err != nil {
		return err
	}

	exported := 0
	if s.cfg.FormListenerAutoExport {
		exported, err = s.exportGenerated()
		if err != nil {
			return err
		}
	}

	fmt.Printf("listener cycle done provider=%s fetched=%d discovered=%d processed=%d warnings=%d exported=%d\n",
		provider, fetchResult.Fetched, discovered, processed, warnings, exported)
	return nil
}

// discoverSubmissions walks pending mail, pulls every referenced
// submission from the API and stores it for processing. Mail without a
// submission reference is marked skipped.
func (s *Service) discoverSubmissions(ctx context.Context, provider string) (int, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", s.cfg.FormListenerFetchMax)
	if err != nil {
		return 0, err
	}

	discovered := 0
	for _, email := range pending {
		if email.Provider != provider {
			continue
		}
		raw, err := os.ReadFile(email.RawRef)
		if err != nil {
			return discovered, err
		}

		refs, subject, err := intake.ExtractSubmissionRefs(raw)
		if err != nil {
			_ = s.db.UpdateEmailStatus(email.ID, "failed")
			continue
		}

		detect := intake.DetectNotification(firstNonEmpty(subject, email.Subject), email.Sender, refs)
		if !detect.IsNotification {
			_ = s.db.UpdateEmailStatus(email.ID, "skipped")
			continue
		}

		for _, ref := range refs {
			submission, err := s.jotform.GetSubmission(ctx, ref.SubmissionID)
			if err != nil {
				return discovered, err
			}
			row, err := submission.ToRow()
			if err != nil {
				return discovered, err
			}
			if err := s.db.UpsertSubmission(row); err != nil {
				return discovered, err
			}
			discovered++
		}

		if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
			return discovered, err
		}
	}

	return discovered, nil
}

func (s *Service) exportGenerated() (int, error) {
	orders, err := s.db.ListOrdersByStatus("generated", 200)
	if err != nil {
		return 0, err
	}

	exported := 0
	for _, row := range orders {
		if _, err := pipeline.ExportStoredOrder(row, s.cfg.OutputDir); err != nil {
			return exported, err
		}
		if err := s.db.UpdateOrderStatus(row.ID, "exported"); err != nil {
			return exported, err
		}
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

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
