package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"umzug/internal"
	"umzug/internal/config"
	"umzug/internal/order"
	"umzug/internal/storage"
)

type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg}
}

type ProcessResult struct {
	SubmissionID string
	OrderID      int64
	Warnings     int
}

// ProcessSubmissionID regenerates the order for one stored submission,
// replacing any earlier result.
func (s *ProcessingService) ProcessSubmissionID(id string) (ProcessResult, error) {
	row, err := s.db.MustSubmission(id)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessSubmission(row)
}

// ProcessPending generates orders for fetched submissions that have not
// been processed yet. A submission that fails to generate is marked
// failed and does not abort the batch.
func (s *ProcessingService) ProcessPending(limit int) (int, int, error) {
	pending, err := s.db.ListSubmissionsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processed := 0
	warnings := 0
	for _, row := range pending {
		res, err := s.ProcessSubmission(row)
		if err != nil {
			_ = s.db.UpdateSubmissionStatus(row.ID, "failed")
			continue
		}
		processed++
		warnings += res.Warnings
	}
	return processed, warnings, nil
}

func (s *ProcessingService) ProcessSubmission(row internal.SubmissionRow) (ProcessResult, error) {
	start := time.Now()

	var answers []internal.Answer
	if err := json.Unmarshal([]byte(row.AnswersJSON), &answers); err != nil {
		return ProcessResult{}, fmt.Errorf("decode stored answers for %s: %w", row.ID, err)
	}

	catalogs, err := s.db.LoadCatalogs()
	if err != nil {
		return ProcessResult{}, err
	}
	loadedAt := time.Now()

	result, err := order.Generate(answers, catalogs)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("generate order for %s: %w", row.ID, err)
	}
	generatedAt := time.Now()

	if err := s.db.ClearSubmissionOrders(row.ID); err != nil {
		return ProcessResult{}, err
	}
	orderID, err := s.db.InsertOrder(row.ID, result.Order, result.Warnings)
	if err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.UpdateSubmissionStatus(row.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}

	_ = s.db.InsertRun(traceID(), row.ID, map[string]float64{
		"loadMs":     float64(loadedAt.Sub(start).Milliseconds()),
		"generateMs": float64(generatedAt.Sub(loadedAt).Milliseconds()),
		"totalMs":    float64(time.Since(start).Milliseconds()),
	}, map[string]int{
		"answers":  len(answers),
		"items":    len(result.Order.Items),
		"services": len(result.Order.Services),
		"warnings": len(result.Warnings),
	})

	return ProcessResult{SubmissionID: row.ID, OrderID: orderID, Warnings: len(result.Warnings)}, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
