package pdf

import (
	"fmt"

	"umzug/internal/invoice"
)

// Company block printed on every document.
var (
	companyTitle = "UMZUG RUCK ZUCK"

	companyContact = []string{
		"Tel.: 089 / 306 42 972",
		"Mobil: 0176 / 101 71 990",
		"Fax: 089 / 326 08 009",
		"umzugruckzuck@gmail.com",
	}

	companyDetails = []string{
		"Alexander Berent",
		"Am Münchfeld 31",
		"80999 München",
		"UST-ID-Nr. DE 18 08 27 046",
		"Steuernummer: 144 / 139 / 21180",
	}

	companyPostalLine = "Alexander Berent, Am Münchfeld 31, 80999 München"

	bankAccount = []string{
		"Alexander Berent, Stadtsparkasse München",
		"IBAN: DE41 7015 0000 1005 7863 20",
		"BIC: SSKMDEMMXXX",
	}
)

var invoiceMargins = Margins{Left: 25, Right: 12, Top: 8, Bottom: 3}

// RenderRechnung lays out an invoice document.
func RenderRechnung(r invoice.Rechnung, vatRate string) *Builder {
	b := NewBuilder(invoiceMargins)
	b.AddSpace(5)

	addTitle(b)
	addHeader(b)
	addPostalLine(b)
	addDate(b, "Rechnungsdatum", r.Date)
	addCustomer(b, r.Firma, r.CustomerName, r.CustomerStreet, r.CustomerPlz)

	b.AddSpace(35)
	b.SetBold()
	b.AddText(fmt.Sprintf("Rechnung Nr: %s", r.RNumber), 12, "C")
	b.ResetText()

	addEntryTable(b, r.Entries, false)
	addTotals(b, r.Entries, vatRate, false)
	addText(b, r.Text)

	b.MoveTo(250)
	addFooter(b)
	return b
}

// RenderGutschrift lays out a credit note; amounts carry a negative
// sign.
func RenderGutschrift(g invoice.Gutschrift, vatRate string) *Builder {
	b := NewBuilder(invoiceMargins)
	b.AddSpace(5)

	addTitle(b)
	addHeader(b)
	addPostalLine(b)
	addDate(b, "Datum", g.Date)
	addCustomer(b, g.Firma, g.CustomerName, g.CustomerStreet, g.CustomerPlz)

	b.AddSpace(35)
	b.SetBold()
	b.AddText(fmt.Sprintf("Gutschrift Nr: %s zur Rechnung Nr: %s", g.GNumber, g.RNumber), 12, "C")
	b.ResetText()

	addEntryTable(b, g.Entries, true)
	addTotals(b, g.Entries, vatRate, true)
	addText(b, g.Text)

	b.MoveTo(250)
	addFooter(b)
	return b
}

func addTitle(b *Builder) {
	b.SetBold()
	b.AddBlackHeader(companyTitle)
	b.ResetText()
}

func addHeader(b *Builder) {
	b.SetColor(60, 60, 60)
	b.AddLeftRight(companyContact, companyDetails, 8)
	b.ResetText()
}

func addPostalLine(b *Builder) {
	b.AddSpace(10)
	b.AddText(companyPostalLine, 8, "L")
}

func addDate(b *Builder, word, date string) {
	b.AddSpace(10)
	b.AddLeftRight(nil, []string{fmt.Sprintf("%s: %s", word, date)}, 0)
}

func addCustomer(b *Builder, firma, name, street, plz string) {
	b.AddSpace(5)
	var col []string
	for _, line := range []string{firma, name, street, plz} {
		if line != "" {
			col = append(col, line)
		}
	}
	b.AddLeftRight(col, nil, 0)
}

func addEntryTable(b *Builder, entries []invoice.Entry, negative bool) {
	head := []string{"Bezeichnung", "Menge", "Einzelpreis", "Betrag"}
	body := make([][]string, 0, len(entries))
	for _, e := range entries {
		body = append(body, []string{
			e.Desc,
			e.Colli,
			signedEuro(e.Price, negative),
			signedEuro(e.Sum, negative),
		})
	}
	b.AddSpace(5)
	b.AddTable(head, body, ColumnAlign{1: "R", 2: "R", 3: "R"})
}

func addTotals(b *Builder, entries []invoice.Entry, vatRate string, negative bool) {
	b.AddSpace(10)
	n := invoice.CalculateNumbers(entries, vatRate)
	prefix := ""
	if negative {
		prefix = "- "
	}
	b.AddLeftRight(nil, []string{
		fmt.Sprintf("Nettobetrag:   %s%s", prefix, invoice.EuroValueDecimal(n.Netto)),
		fmt.Sprintf("19%% MwSt:     %s%s", prefix, invoice.EuroValueDecimal(n.Tax)),
		fmt.Sprintf("Gesamtbetrag:   %s%s", prefix, invoice.EuroValueDecimal(n.Brutto)),
	}, 0)
}

func signedEuro(v string, negative bool) string {
	out := invoice.EuroValue(v)
	if out == "" || !negative {
		return out
	}
	return "-" + out
}

func addText(b *Builder, text string) {
	if text == "" {
		return
	}
	b.AddSpace(10)
	b.ResetText()
	b.AddTextBlock(text)
}

func addFooter(b *Builder) {
	b.AddText("Die Rechnung wurde maschinell erstellt und ist ohne Unterschrift gültig.", 8, "L")
	b.AddLine()
	b.Add2Cols([]string{"Bankverbindung:"}, bankAccount, 8, 25)
}
