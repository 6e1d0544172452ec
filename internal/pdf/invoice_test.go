package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"umzug/internal/invoice"
)

func sampleRechnung() invoice.Rechnung {
	return invoice.Rechnung{
		RNumber:        "2301",
		Date:           "07.10.2026",
		CustomerName:   "Herr Max Mustermann",
		CustomerStreet: "Zielstraße 9",
		CustomerPlz:    "50667 Köln",
		Entries: []invoice.Entry{
			{Desc: "Umzug pauschal", Colli: "1", Price: "1190", Sum: "1190"},
			{Desc: "Umzugskartons", Colli: "10", Price: "2,50", Sum: "25"},
		},
		Text: "Zahlbar innerhalb von 14 Tagen.",
	}
}

func TestRenderRechnungProducesPDF(t *testing.T) {
	b := RenderRechnung(sampleRechnung(), "0.19")
	blob, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(blob, []byte("%PDF")) {
		t.Fatalf("unexpected document prefix % x", blob[:8])
	}
}

func TestRenderGutschriftProducesPDF(t *testing.T) {
	g := invoice.Gutschrift{
		GNumber:      "G-12",
		RNumber:      "2301",
		Date:         "10.10.2026",
		CustomerName: "Herr Max Mustermann",
		Entries:      []invoice.Entry{{Desc: "Erstattung", Colli: "1", Price: "100", Sum: "100"}},
	}
	blob, err := RenderGutschrift(g, "0.19").Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(blob) == 0 {
		t.Fatal("empty document")
	}
}

func TestBuilderSaveTo(t *testing.T) {
	tmp := t.TempDir()
	b := RenderRechnung(sampleRechnung(), "0.19")

	name := invoice.FileName("Rechnung", "2301")
	path, err := b.SaveTo(tmp, name)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(tmp, "Rechnung-2301.pdf") {
		t.Fatalf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}
