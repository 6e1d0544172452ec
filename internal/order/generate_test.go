package order

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"umzug/internal"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func submissionAnswers(extra ...internal.Answer) []internal.Answer {
	answers := []internal.Answer{
		{Name: "name", Order: 1, Value: map[string]any{"prefix": "Herr", "first": "Max", "last": "Meier"}},
		{Name: "email7", Order: 2, Value: "max@example.com"},
		{Name: "typeA255", Order: 3, Value: "089 123456"},
		{Name: "typeA", Order: 4, Value: "R-1001"},
		{Name: "strasseNr", Order: 5, Value: "Musterweg 1"},
		{Name: "plz", Order: 6, Value: "80999"},
		{Name: "typeA263", Order: 7, Value: "München"},
		{Name: "mobelabbau", Order: 8, Value: "Ja"},
		{Name: "umzugsvolumen", Order: 9, Value: "22,5"},
		{Name: sentinelStart, Order: 10, Value: "Möbelliste"},
		{Name: "stuhl-esszimmer", Order: 15, Value: "4", Text: "Stuhl"},
		{Name: sentinelEnd, Order: 20, Value: "Ende"},
		{Name: "auszugsdatumFix", Order: 21, Value: map[string]any{"day": "07", "month": "10", "year": "2026"}},
		{Name: "anmerkung", Order: 22, Value: "Bitte klingeln"},
	}
	return append(answers, extra...)
}

func TestGenerateEndToEnd(t *testing.T) {
	res, err := Generate(submissionAnswers(), testCatalogs())
	if err != nil {
		t.Fatal(err)
	}
	order := res.Order

	if len(order.Items) != 1 {
		t.Fatalf("items: %+v", order.Items)
	}
	want := internal.Furniture{Name: "Stuhl", SelectedCategory: "STUHL", Colli: "4"}
	if order.Items[0] != want {
		t.Fatalf("got %+v want %+v", order.Items[0], want)
	}

	if order.Customer.FirstName != "Max" || order.Customer.LastName != "Meier" || order.Customer.Salutation != "Herr" {
		t.Fatalf("customer: %+v", order.Customer)
	}
	if order.From.Address != "Musterweg 1, 80999 München" {
		t.Fatalf("from address=%q", order.From.Address)
	}
	if !order.From.Demontage {
		t.Fatal("mobelabbau=Ja must map to demontage")
	}
	if order.RID != "R-1001" {
		t.Fatalf("rid=%q", order.RID)
	}
	if order.Volume != "22.5" {
		t.Fatalf("volume=%q", order.Volume)
	}
	if order.Date != "07.10.2026" {
		t.Fatalf("date=%q", order.Date)
	}
	if order.Text != "Bitte klingeln" {
		t.Fatalf("text=%q", order.Text)
	}
	if order.Src != "individuelle" || order.Time != "07:00" {
		t.Fatalf("fixed fields: src=%q time=%q", order.Src, order.Time)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings: %+v", res.Warnings)
	}
}

func TestGenerateBooleanFlagMapping(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{value: "Ja", want: true},
		{value: "Nein", want: false},
		{value: "ja", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			answers := submissionAnswers()
			for i := range answers {
				if answers[i].Name == "mobelabbau" {
					answers[i].Value = tc.value
				}
			}
			res, err := Generate(answers, testCatalogs())
			if err != nil {
				t.Fatal(err)
			}
			if res.Order.From.Demontage != tc.want {
				t.Fatalf("demontage=%v want %v", res.Order.From.Demontage, tc.want)
			}
		})
	}
}

func TestGenerateMissingSentinelFails(t *testing.T) {
	answers := submissionAnswers()
	filtered := answers[:0]
	for _, a := range answers {
		if a.Name != sentinelEnd {
			filtered = append(filtered, a)
		}
	}
	_, err := Generate(filtered, testCatalogs())
	if !errors.Is(err, ErrMissingSentinel) {
		t.Fatalf("got %v, want ErrMissingSentinel", err)
	}
}

func TestGenerateAddressSeparatorsStay(t *testing.T) {
	answers := submissionAnswers()
	for i := range answers {
		if answers[i].Name == "plz" {
			answers[i].Value = ""
		}
	}
	res, err := Generate(answers, testCatalogs())
	if err != nil {
		t.Fatal(err)
	}
	// The empty fragment leaves its separators in place.
	if res.Order.From.Address != "Musterweg 1,  München" {
		t.Fatalf("address=%q", res.Order.From.Address)
	}
}

func TestGenerateHasLoftShapes(t *testing.T) {
	res, err := Generate(submissionAnswers(
		internal.Answer{Name: "dachboden", Order: 30, Value: "Ja"},
		internal.Answer{Name: "dachboden236", Order: 31, Value: "Ja"},
	), testCatalogs())
	if err != nil {
		t.Fatal(err)
	}
	if loft, ok := res.Order.From.HasLoft.(bool); !ok || !loft {
		t.Fatalf("origin hasLoft: %#v", res.Order.From.HasLoft)
	}
	if loft, ok := res.Order.To.HasLoft.(string); !ok || loft != "Ja" {
		t.Fatalf("destination hasLoft keeps the raw answer: %#v", res.Order.To.HasLoft)
	}
}

func TestGenerateResidualAnswersWarn(t *testing.T) {
	res, err := Generate(submissionAnswers(
		internal.Answer{Name: "brandNewField", Order: 40, Value: "x"},
	), testCatalogs())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != internal.WarnResidualAnswers {
		t.Fatalf("warnings: %+v", res.Warnings)
	}
	if got := res.Warnings[0].Message; got != "unconsumed answers: brandNewField" {
		t.Fatalf("message=%q", got)
	}
}

func TestGenerateDiscardsKnownIrrelevantAnswers(t *testing.T) {
	res, err := Generate(submissionAnswers(
		internal.Answer{Name: "bohrarbeiten", Order: 41, Value: "Ja"},
		internal.Answer{Name: "mochtenSie", Order: 42, Value: "x"},
	), testCatalogs())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("discard list must consume quietly: %+v", res.Warnings)
	}
}

func TestGenerateSupplementalVolumeAccumulates(t *testing.T) {
	res, err := Generate(submissionAnswers(
		internal.Answer{Name: "sperrigeNicht41", Order: 50, Value: "Ja"},
		internal.Answer{Name: "sperrigeGegenstande", Order: 51, Value: `[{"Bezeichnung":"Schrank","Breite":"100","Höhe":"50","Tiefe":"30","Gewicht":"80"}]`},
	), testCatalogs())
	if err != nil {
		t.Fatal(err)
	}
	// 22.5 base + 0.15 computed, re-serialized to two digits.
	if res.Order.Volume != "22.65" {
		t.Fatalf("volume=%q", res.Order.Volume)
	}
}

func TestGenerateConcurrentCallsAreIndependent(t *testing.T) {
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			res, err := Generate(submissionAnswers(), testCatalogs())
			if err == nil && res.Order.Volume != "22.5" {
				err = errors.New("volume diverged: " + res.Order.Volume)
			}
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
