package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"umzug/internal"
	"umzug/internal/catalog"
	"umzug/internal/util"
)

// Result carries the generated order together with the non-fatal
// diagnostics collected along the way.
type Result struct {
	Order    internal.Order
	Warnings []internal.Warning
}

// Answers the form asks for but the order never uses. They are consumed
// so the residual diagnostic only lists genuinely unknown fields.
var discardNames = []string{"mochtenSie", "typeA253", "bohrarbeiten", "lampenAnbringen", "schrankeAufhangen"}

// generator is the working state of one Generate call. The answer set
// is consumed destructively step by step; the step sequence is part of
// the contract and must stay stable.
type generator struct {
	set      *AnswerSet
	catalogs catalog.Catalogs
	order    internal.Order
	warnings []internal.Warning
}

// Generate converts one submission's answer stream into an Order. Only
// a missing furniture-block sentinel fails the call; everything else is
// reported through Result.Warnings.
func Generate(raw []internal.Answer, catalogs catalog.Catalogs) (Result, error) {
	normalized := NormalizeAnswers(raw)

	cluster, rest, err := splitFurnitureBlock(normalized)
	if err != nil {
		return Result{}, err
	}

	g := &generator{set: NewAnswerSet(rest), catalogs: catalogs}

	name := g.set.TakeMap("name")

	g.order.Items = furnitureFromCluster(cluster)
	g.order.Services = g.packagingServices()

	g.order.Customer = internal.Customer{
		EmailCopy:  g.set.TakeString("email7"),
		TelNumber:  g.set.TakeString("typeA255"),
		FirstName:  name["first"],
		LastName:   name["last"],
		Salutation: name["prefix"],
	}

	fromAddr := g.joinAddress("strasseNr", "plz", "typeA263")
	toAddr := g.joinAddress("strasseNr218", "plz221", "typeA265")
	demontage := g.takeYes("mobelabbau")
	montage := g.takeYes("mobelaufbau")

	g.order.From = internal.Address{
		Address:         fromAddr,
		Floor:           g.set.TakeString("stockwerk"),
		LiftType:        g.set.TakeString("fahrstuhlgroe"),
		Area:            withSuffix(g.set.TakeString("wohnflache"), " m²"),
		HasLoft:         g.takeYes("dachboden"),
		RoomsNumber:     g.set.TakeString("anzahlDer267"),
		RunningDistance: withSuffix(g.set.TakeString("entfernungZwischen15"), " m."),
		MovementObject:  g.set.TakeString("wohnungstyp"),
		ParkingSlot:     g.set.TakeString("parkUnd28") == parkingByCarrier,
		Packservice:     g.takeYes("umzugsgutIn"),
		IsAltbau:        g.takeYes("altbauAuszug"),
		Demontage:       demontage,
		Stockwerke:      g.set.TakeString("name339"),
	}

	g.order.To = internal.Address{
		Address:         toAddr,
		Floor:           g.set.TakeString("stockwerk283"),
		LiftType:        g.set.TakeString("fahrstuhlgroe246"),
		MovementObject:  g.set.TakeString("wohnungstyp248"),
		RunningDistance: withSuffix(g.set.TakeString("entfernungVom"), " m."),
		// The destination form keeps the raw answer here while the
		// origin maps it to a bool. Downstream consumers depend on
		// both shapes, so this stays unaligned.
		HasLoft:     g.set.TakeString("dachboden236"),
		ParkingSlot: g.set.TakeString("parkUnd37") == parkingByCarrier,
		Packservice: g.takeYes("umzugsgutAuspacken"),
		IsAltbau:    g.takeYes("altbauEinzug"),
		Stockwerke:  g.set.TakeString("name340"),
		Montage:     montage,
	}

	g.order.Date = dateString(g.set.TakeMap("auszugsdatumFix"))
	g.order.DateFrom = dateString(g.set.TakeMap("von"))
	g.order.DateTo = dateString(g.set.TakeMap("bis"))
	g.order.Images = g.set.TakeString("bilderHochladen")
	g.order.RID = g.set.TakeString("typeA")
	g.order.BoxNumber = g.set.TakeString("umzugskartons276")
	g.order.Volume = strings.ReplaceAll(g.set.TakeString("umzugsvolumen"), ",", ".")
	g.order.Text = g.set.TakeString("anmerkung")
	g.order.Expensive = g.takeYes("antikeOder323")
	g.order.ExpensiveText = g.set.TakeString("antikeUnd")
	g.order.Src = "individuelle"
	g.order.Time = "07:00"

	g.applyAnnotations()

	g.resolveBulkyItems()
	g.resolveHeavyItems()
	g.resolveFurtherFurniture()
	g.resolveWardrobeBoxes()
	g.resolveLampService()
	g.resolveCabinetService()
	g.resolveKitchenService()
	g.resolvePiano()

	g.discardIgnored()
	g.reportResidual()

	return Result{Order: g.order, Warnings: g.warnings}, nil
}

func (g *generator) warn(kind internal.WarningKind, answer, message string) {
	g.warnings = append(g.warnings, internal.Warning{Kind: kind, Answer: answer, Message: message})
}

func (g *generator) takeYes(name string) bool {
	return util.IsYes(g.set.TakeString(name))
}

// joinAddress glues street, postal code and city with fixed separators.
// Missing fragments leave their separators behind; the editing UI
// expects that shape.
func (g *generator) joinAddress(street, plz, city string) string {
	return g.set.TakeString(street) + ", " + g.set.TakeString(plz) + " " + g.set.TakeString(city)
}

// addVolume accumulates onto the running total; the total is
// re-serialized with two fractional digits after every addition.
func (g *generator) addVolume(v decimal.Decimal) {
	base := decimal.Zero
	if s := strings.TrimSpace(g.order.Volume); s != "" {
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			g.warn(internal.WarnMalformedAnswerBlock, "umzugsvolumen", fmt.Sprintf("unparseable base volume %q", s))
		} else {
			base = parsed
		}
	}
	g.order.Volume = base.Add(v).StringFixed(2)
}

func (g *generator) discardIgnored() {
	for _, name := range discardNames {
		g.set.Take(name)
	}
}

// reportResidual lists every answer no step consumed. This is how form
// schema drift shows up first.
func (g *generator) reportResidual() {
	rest := g.set.Remaining()
	if len(rest) == 0 {
		return
	}
	names := make([]string, 0, len(rest))
	for _, a := range rest {
		names = append(names, a.Name)
	}
	g.warn(internal.WarnResidualAnswers, "", "unconsumed answers: "+strings.Join(names, ", "))
}

// dateString renders a {day, month, year} date answer as d.m.yyyy.
func dateString(da map[string]string) string {
	if da == nil {
		return ""
	}
	return fmt.Sprintf("%s.%s.%s", da["day"], da["month"], da["year"])
}

func withSuffix(s, suffix string) string {
	if s == "" {
		return ""
	}
	return s + suffix
}
