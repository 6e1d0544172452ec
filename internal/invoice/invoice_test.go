package invoice

import (
	"testing"

	"umzug/internal"
)

func TestEuroValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  ", ""},
		{"abc", ""},
		{"12", "12,00 €"},
		{"12,24", "12,24 €"},
		{"1295", "1.295,00 €"},
		{"1295.99", "1.295,99 €"},
		{"1234567.5", "1.234.567,50 €"},
		{"-40", "-40,00 €"},
	}
	for _, tt := range tests {
		if got := EuroValue(tt.in); got != tt.want {
			t.Errorf("EuroValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCalculateNumbers(t *testing.T) {
	entries := []Entry{
		{Desc: "Umzug", Colli: "1", Price: "1190", Sum: "1190"},
		{Desc: "Kartons", Colli: "10", Price: "2,50", Sum: "25"},
		{Desc: "kein Betrag", Colli: "1"},
		{Desc: "kaputt", Sum: "n/a"},
	}

	n := CalculateNumbers(entries, "0.19")
	if got := n.Brutto.StringFixed(2); got != "1215.00" {
		t.Fatalf("brutto = %s", got)
	}
	if got := n.Netto.StringFixed(2); got != "1021.01" {
		t.Fatalf("netto = %s", got)
	}
	if got := n.Tax.StringFixed(2); got != "193.99" {
		t.Fatalf("tax = %s", got)
	}
	if !n.Netto.Add(n.Tax).Equal(n.Brutto) {
		t.Fatal("netto + tax must equal brutto")
	}
}

func TestCalculateNumbersBadRateFallsBack(t *testing.T) {
	entries := []Entry{{Sum: "119"}}
	n := CalculateNumbers(entries, "?")
	if got := n.Netto.StringFixed(2); got != "100.00" {
		t.Fatalf("netto = %s", got)
	}
}

func TestParseableDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"10.12.2022", "2022-12-10"},
		{"7.3.2026", "2026-03-07"},
		{"2022-12-10", "2022-12-10"},
	}
	for _, tt := range tests {
		if got := ParseableDate(tt.in); got != tt.want {
			t.Errorf("ParseableDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCustomerAddressParts(t *testing.T) {
	if got := CustomerStreet(nil); got != "" {
		t.Fatalf("nil order street = %q", got)
	}

	ord := &internal.Order{}
	if got := CustomerStreet(ord); got != "" {
		t.Fatalf("empty address street = %q", got)
	}

	ord.To.Address = "Street 2"
	if got := CustomerStreet(ord); got != "Street 2" {
		t.Fatalf("street = %q", got)
	}
	if got := CustomerPlz(ord); got != "" {
		t.Fatalf("plz without comma = %q", got)
	}

	ord.To.Address = "Street 2, 80804 Muenchen, Deutschland"
	if got := CustomerStreet(ord); got != "Street 2" {
		t.Fatalf("street = %q", got)
	}
	if got := CustomerPlz(ord); got != "80804 Muenchen" {
		t.Fatalf("plz = %q", got)
	}
}

func TestFromOrder(t *testing.T) {
	ord := internal.Order{
		Date: "07.10.2026",
		Customer: internal.Customer{
			Salutation: "Herr",
			FirstName:  "Max",
			LastName:   "Meier",
		},
		Services: []internal.OrderService{
			{Name: "Küchenabbau / Lfm.", Price: "45", Colli: "3"},
		},
	}
	ord.To.Address = "Zielstraße 9, 50667 Köln"

	r := FromOrder(ord, "2301")
	if r.CustomerName != "Herr Max Meier" {
		t.Fatalf("customer = %q", r.CustomerName)
	}
	if r.CustomerStreet != "Zielstraße 9" || r.CustomerPlz != "50667 Köln" {
		t.Fatalf("address parts = %q / %q", r.CustomerStreet, r.CustomerPlz)
	}
	if len(r.Entries) != 1 || r.Entries[0].Desc != "Küchenabbau / Lfm." {
		t.Fatalf("entries = %+v", r.Entries)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("Rechnung", "23/01"); got != "Rechnung-23_01.pdf" {
		t.Fatalf("filename = %q", got)
	}
}
