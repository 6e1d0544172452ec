package catalog

import (
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	cats, err := LoadFile(filepath.Join("testdata", "catalog.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cats.Services) != 4 || len(cats.Items) != 2 || len(cats.Categories) != 2 {
		t.Fatalf("sizes: %d/%d/%d", len(cats.Services), len(cats.Items), len(cats.Categories))
	}

	svc, ok := cats.ServiceByName("Küchenabbau / Lfm.")
	if !ok || svc.Price != "45.00" {
		t.Fatalf("service lookup: %+v ok=%v", svc, ok)
	}
	if _, ok := cats.ServiceByName("küchenabbau / lfm."); ok {
		t.Fatal("lookup must be exact, not case-folded")
	}

	item, ok := cats.ItemByName("Klavier")
	if !ok || item.SelectedCategory != "KLAVIER" {
		t.Fatalf("item lookup: %+v ok=%v", item, ok)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join("testdata", "nope.json")); err == nil {
		t.Fatal("expected error")
	}
}
