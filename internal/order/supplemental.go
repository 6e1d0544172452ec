package order

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"umzug/internal"
)

const (
	categoryBulkyHeavy = "Sperrige/Schwere"
	categoryWeitere    = "WEITERE"
	itemKlavier        = "Klavier"
)

var cubicCentimetersPerM3 = decimal.NewFromInt(1_000_000)

// dimensionedEntry is one row of the bulky/heavy/further-furniture
// sub-forms. Field names are the German matrix column labels the form
// service serializes verbatim.
type dimensionedEntry struct {
	Bezeichnung string `json:"Bezeichnung"`
	Breite      string `json:"Breite"`
	Hoehe       string `json:"Höhe"`
	Tiefe       string `json:"Tiefe"`
	Gewicht     string `json:"Gewicht"`
	Anzahl      string `json:"Anzahl"`
}

// resolveBulkyItems and resolveHeavyItems differ only in the guarding
// flag, the payload answer and which marker ends up on the item. Their
// computed volume goes onto the order total and never onto the item.
func (g *generator) resolveBulkyItems() {
	g.resolveDimensioned("sperrigeNicht41", "sperrigeGegenstande", true, false)
}

func (g *generator) resolveHeavyItems() {
	g.resolveDimensioned("besondersSchwere", "auflistungDer", false, true)
}

func (g *generator) resolveDimensioned(flagName, listName string, bulky, m100 bool) {
	if !g.takeYes(flagName) {
		return
	}
	entries, ok := g.takeEntryList(listName)
	if !ok {
		return
	}
	for _, entry := range entries {
		g.addVolume(g.entryVolume(listName, entry))
		g.order.Items = append(g.order.Items, internal.Furniture{
			Name:             fmt.Sprintf("%s (%s  x %s x %s cm)", undAmpersand(entry.Bezeichnung), entry.Breite, entry.Tiefe, entry.Hoehe),
			SelectedCategory: categoryBulkyHeavy,
			Colli:            "1",
			Volume:           0,
			Bulky:            bulky,
			M100:             m100,
			Weight:           entry.Gewicht,
		})
	}
}

// resolveFurtherFurniture keeps the computed volume on the item and, in
// contrast to the bulky/heavy blocks, leaves the order total alone.
func (g *generator) resolveFurtherFurniture() {
	payload := g.set.TakeString("weitereMobel")
	if payload == "" {
		return
	}
	var entries []dimensionedEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		g.warn(internal.WarnMalformedAnswerBlock, "weitereMobel", err.Error())
		return
	}
	for _, entry := range entries {
		g.order.Items = append(g.order.Items, internal.Furniture{
			Name:             undAmpersand(entry.Bezeichnung),
			SelectedCategory: categoryWeitere,
			Colli:            entry.Anzahl,
			Volume:           g.entryVolume("weitereMobel", entry).InexactFloat64(),
		})
	}
}

func (g *generator) resolveWardrobeBoxes() {
	boxes := g.set.TakeString("kleiderbox60")
	if boxes == "" || boxes == "0" {
		return
	}
	g.order.Items = append(g.order.Items, internal.Furniture{
		Name:             "Kleiderbox",
		SelectedCategory: categoryWeitere,
		Colli:            boxes,
	})
}

func (g *generator) resolvePiano() {
	if !g.takeYes("schwertransportklavier") {
		return
	}
	item, found := g.catalogs.ItemByName(itemKlavier)
	if !found {
		g.warn(internal.WarnMissingCatalogEntry, "schwertransportklavier", "Klavier Gegenstand muss aktualisiert werden")
		return
	}
	item.Colli = "1"
	item.SelectedCategory = categoryBulkyHeavy
	g.order.Items = append(g.order.Items, item)
}

// Free-text flags appended to the order note. A flag may name a
// companion measurement answer whose value is added as its own
// "<n> Meter" line.
var annotations = []struct {
	flag    string
	text    string
	measure string
}{
	{flag: "garage24", text: "Garage umziehen!"},
	{flag: "keller", text: "Keller umziehen!"},
	{flag: "kostenubernahmeVom", text: "Kostenübernahme von Arbeitsamt"},
	{flag: "kucheaufbau", text: "Küchen-Aufbau"},
}

func (g *generator) applyAnnotations() {
	for _, a := range annotations {
		if !g.takeYes(a.flag) {
			continue
		}
		g.order.Text += "\n" + a.text
		if a.measure != "" {
			g.order.Text += "\n" + g.set.TakeString(a.measure) + " Meter"
		}
	}
}

// takeEntryList consumes and decodes a JSON-array sub-form answer. A
// missing or malformed payload warns and skips the block; the remaining
// blocks are unaffected.
func (g *generator) takeEntryList(name string) ([]dimensionedEntry, bool) {
	payload, ok := g.set.Take(name)
	if !ok {
		g.warn(internal.WarnMalformedAnswerBlock, name, "answer missing")
		return nil, false
	}
	var entries []dimensionedEntry
	if err := json.Unmarshal([]byte(stringValue(payload)), &entries); err != nil {
		g.warn(internal.WarnMalformedAnswerBlock, name, err.Error())
		return nil, false
	}
	return entries, true
}

// entryVolume computes width*height*depth in m³ from centimeter fields.
func (g *generator) entryVolume(answer string, entry dimensionedEntry) decimal.Decimal {
	w := g.dimension(answer, entry.Breite)
	h := g.dimension(answer, entry.Hoehe)
	d := g.dimension(answer, entry.Tiefe)
	return w.Mul(h).Mul(d).Div(cubicCentimetersPerM3)
}

func (g *generator) dimension(answer, raw string) decimal.Decimal {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		g.warn(internal.WarnMalformedAnswerBlock, answer, fmt.Sprintf("unparseable dimension %q", raw))
		return decimal.Zero
	}
	return d
}

func undAmpersand(s string) string {
	return strings.ReplaceAll(s, "&", "und")
}
