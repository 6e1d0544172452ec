package invoice

import (
	"strings"

	"github.com/shopspring/decimal"

	"umzug/internal"
	"umzug/internal/util"
)

// Entry is one billed position.
type Entry struct {
	Desc  string `json:"desc"`
	Colli string `json:"colli"`
	Price string `json:"price"`
	Sum   string `json:"sum"`
}

// Rechnung is an outgoing invoice.
type Rechnung struct {
	RNumber        string  `json:"rNumber"`
	Date           string  `json:"date"`
	Firma          string  `json:"firma,omitempty"`
	CustomerName   string  `json:"customerName"`
	CustomerStreet string  `json:"customerStreet"`
	CustomerPlz    string  `json:"customerPlz"`
	Entries        []Entry `json:"entries"`
	Text           string  `json:"text,omitempty"`
}

// Gutschrift is a credit note issued against an invoice.
type Gutschrift struct {
	GNumber        string  `json:"gNumber"`
	RNumber        string  `json:"rNumber"`
	Date           string  `json:"date"`
	Firma          string  `json:"firma,omitempty"`
	CustomerName   string  `json:"customerName"`
	CustomerStreet string  `json:"customerStreet"`
	CustomerPlz    string  `json:"customerPlz"`
	Entries        []Entry `json:"entries"`
	Text           string  `json:"text,omitempty"`
}

// Numbers is the tax breakdown of an entry list.
type Numbers struct {
	Netto  decimal.Decimal
	Tax    decimal.Decimal
	Brutto decimal.Decimal
}

// CalculateNumbers sums the entry totals as the gross amount and splits
// out the included VAT. vatRate is e.g. "0.19"; an unparseable rate
// falls back to 19%.
func CalculateNumbers(entries []Entry, vatRate string) Numbers {
	rate, err := decimal.NewFromString(strings.TrimSpace(vatRate))
	if err != nil || rate.IsNegative() {
		rate = decimal.NewFromFloat(0.19)
	}

	brutto := decimal.Zero
	for _, e := range entries {
		s := strings.ReplaceAll(strings.TrimSpace(e.Sum), ",", ".")
		if s == "" {
			continue
		}
		v, err := decimal.NewFromString(s)
		if err != nil {
			continue
		}
		brutto = brutto.Add(v)
	}

	netto := brutto.Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	return Numbers{
		Netto:  netto,
		Tax:    brutto.Sub(netto),
		Brutto: brutto,
	}
}

// EuroValue renders an amount in German notation with a non-breaking
// space before the euro sign: 1295.99 -> "1.295,99 €". Empty input
// renders empty.
func EuroValue(v string) string {
	s := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
	if s == "" {
		return ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ""
	}
	return EuroValueDecimal(d)
}

func EuroValueDecimal(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	whole, frac := parts[0], parts[1]

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := grouped.String() + "," + frac + " €"
	if neg {
		out = "-" + out
	}
	return out
}

// CustomerFullname joins salutation, first and last name.
func CustomerFullname(ord *internal.Order) string {
	if ord == nil {
		return ""
	}
	return ord.Customer.FullName()
}

// CustomerStreet takes the street part of the destination address,
// everything before the first comma.
func CustomerStreet(ord *internal.Order) string {
	if ord == nil {
		return ""
	}
	return strings.TrimSpace(strings.SplitN(ord.To.Address, ",", 2)[0])
}

// CustomerPlz takes the postal code and city part of the destination
// address, everything between the first and an optional second comma.
func CustomerPlz(ord *internal.Order) string {
	if ord == nil {
		return ""
	}
	parts := strings.Split(ord.To.Address, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ParseableDate converts the display format d.m.yyyy (or dd.mm.yyyy) to
// yyyy-mm-dd. Input already in that shape passes through unchanged.
func ParseableDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	if !strings.Contains(date, ".") {
		return date
	}
	parts := strings.Split(date, ".")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "-" + pad2(parts[1]) + "-" + pad2(parts[0])
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// FileName is the document file name for an invoice or credit note,
// e.g. "Rechnung-2301.pdf".
func FileName(kind, number string) string {
	return util.SanitizeFilename(kind+"-"+number) + ".pdf"
}

// FromOrder pre-fills an invoice from a generated order: customer
// block, invoice date and one position per booked service.
func FromOrder(ord internal.Order, rNumber string) Rechnung {
	entries := make([]Entry, 0, len(ord.Services))
	for _, svc := range ord.Services {
		entries = append(entries, Entry{
			Desc:  svc.Name,
			Colli: svc.Colli,
			Price: svc.Price,
		})
	}
	return Rechnung{
		RNumber:        rNumber,
		Date:           ord.Date,
		CustomerName:   ord.Customer.FullName(),
		CustomerStreet: CustomerStreet(&ord),
		CustomerPlz:    CustomerPlz(&ord),
		Entries:        entries,
	}
}
