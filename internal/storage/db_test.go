package storage

import (
	"path/filepath"
	"testing"

	"umzug/internal"
	"umzug/internal/catalog"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCatalogRoundTrip(t *testing.T) {
	db := openTestDB(t)

	cats := catalog.Catalogs{
		Services: []internal.OrderService{
			{Name: "Umzugskartons / Stk.", Price: "2.50"},
			{Name: "Küchenabbau / Lfm.", Price: "45.00"},
		},
		Items:      []internal.Furniture{{Name: "Klavier", SelectedCategory: "KLAVIER"}},
		Categories: []internal.Category{{Name: "WOHNZIMMER"}},
	}
	if err := db.ReplaceCatalogs(cats); err != nil {
		t.Fatal(err)
	}

	loaded, err := db.LoadCatalogs()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Services) != 2 || len(loaded.Items) != 1 || len(loaded.Categories) != 1 {
		t.Fatalf("sizes: %d/%d/%d", len(loaded.Services), len(loaded.Items), len(loaded.Categories))
	}
	svc, ok := loaded.ServiceByName("Küchenabbau / Lfm.")
	if !ok || svc.Price != "45.00" {
		t.Fatalf("service: %+v ok=%v", svc, ok)
	}

	// A second import updates in place, no duplicate rows.
	cats.Services[1].Price = "50.00"
	if err := db.ReplaceCatalogs(cats); err != nil {
		t.Fatal(err)
	}
	loaded, err = db.LoadCatalogs()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Services) != 2 {
		t.Fatalf("services after reimport: %d", len(loaded.Services))
	}
	svc, _ = loaded.ServiceByName("Küchenabbau / Lfm.")
	if svc.Price != "50.00" {
		t.Fatalf("price after reimport: %s", svc.Price)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	db := openTestDB(t)

	row := internal.SubmissionRow{
		ID:          "6100000000000000001",
		FormID:      "240000000000001",
		CreatedAt:   "2026-08-30 09:15:00",
		Email:       "max@example.com",
		AnswersJSON: "[]",
		Status:      "fetched",
	}
	if err := db.UpsertSubmission(row); err != nil {
		t.Fatal(err)
	}

	pending, err := db.ListSubmissionsByStatus("fetched", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending=%d", len(pending))
	}

	// Refetching must not bounce the status back.
	if err := db.UpdateSubmissionStatus(row.ID, "processed"); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertSubmission(row); err != nil {
		t.Fatal(err)
	}
	got, err := db.MustSubmission(row.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "processed" {
		t.Fatalf("status=%q", got.Status)
	}

	if _, err := db.MustSubmission("missing"); err == nil {
		t.Fatal("expected error for unknown submission")
	}
}

func TestOrderWithWarnings(t *testing.T) {
	db := openTestDB(t)

	sub := internal.SubmissionRow{ID: "s1", FormID: "f1", AnswersJSON: "[]", Status: "fetched"}
	if err := db.UpsertSubmission(sub); err != nil {
		t.Fatal(err)
	}

	ord := internal.Order{Volume: "22.65", Src: "individuelle"}
	warnings := []internal.Warning{
		{Kind: internal.WarnMissingCatalogEntry, Answer: "klavierTransport", Message: "no catalog entry for Klavier"},
		{Kind: internal.WarnResidualAnswers, Message: "unconsumed answers: brandNewField"},
	}
	orderID, err := db.InsertOrder(sub.ID, ord, warnings)
	if err != nil {
		t.Fatal(err)
	}

	row, err := db.GetOrder(int(orderID))
	if err != nil {
		t.Fatal(err)
	}
	if row == nil || row.Volume != "22.65" || row.Status != "generated" {
		t.Fatalf("row=%+v", row)
	}

	stored, err := db.ListOrderWarnings(int(orderID))
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 || stored[0].Kind != internal.WarnMissingCatalogEntry {
		t.Fatalf("warnings=%+v", stored)
	}

	if err := db.ClearSubmissionOrders(sub.ID); err != nil {
		t.Fatal(err)
	}
	row, err = db.GetOrder(int(orderID))
	if err != nil {
		t.Fatal(err)
	}
	if row != nil {
		t.Fatal("order should be cleared")
	}
	stored, err = db.ListOrderWarnings(int(orderID))
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 0 {
		t.Fatalf("warnings should be cleared, got %d", len(stored))
	}
}

func TestEmailUpsertKeepsStatus(t *testing.T) {
	db := openTestDB(t)

	row, err := db.UpsertEmail("imap", "<m1@example.com>", "Neue Antwort", "noreply@jotform.com", "2026-08-30T09:15:00Z", "h1", "/tmp/h1.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.UpdateEmailStatus(row.ID, "processed"); err != nil {
		t.Fatal(err)
	}

	again, err := db.UpsertEmail("imap", "<m1@example.com>", "Neue Antwort", "noreply@jotform.com", "2026-08-30T09:15:00Z", "h1", "/tmp/h1.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != row.ID {
		t.Fatalf("duplicate row: %d vs %d", again.ID, row.ID)
	}
	if again.Status != "processed" {
		t.Fatalf("status=%q", again.Status)
	}
}

func TestMetadata(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetMetadata("lastSync")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected nil for unknown key")
	}

	if err := db.SetMetadata("lastSync", "2026-08-30"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("lastSync", "2026-08-31"); err != nil {
		t.Fatal(err)
	}
	got, err = db.GetMetadata("lastSync")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "2026-08-31" {
		t.Fatalf("value=%v", got)
	}
}
