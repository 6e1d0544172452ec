package order

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"umzug/internal"
)

// Parking answers carry the full option label, not a yes/no.
const parkingByCarrier = "vom Spediteur zu organisieren"

// Catalog names of the services the form books through sub-questions
// instead of the packaging matrix. They must match the catalog exactly.
const (
	serviceLampen    = "Lampe & Lüster, De/Montage / Stk."
	serviceSchraenke = "Schränke aufhängen / Stk."
	serviceKueche    = "Küchenabbau / Lfm."
)

type packagingEntry struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// packagingServices parses the packaging sub-form: a mapping of row
// keys to JSON-encoded {name, quantity} strings. A parse failure
// anywhere drops the whole block, never part of it.
func (g *generator) packagingServices() []internal.OrderService {
	services := make([]internal.OrderService, 0)

	v, ok := g.set.Take("verpackung")
	if !ok {
		return services
	}
	rows := mapValue(v)
	if rows == nil {
		g.warn(internal.WarnMalformedAnswerBlock, "verpackung", "unexpected answer shape")
		return services
	}

	entries := make([]packagingEntry, 0, len(rows))
	for _, key := range sortedRowKeys(rows) {
		var entry packagingEntry
		if err := json.Unmarshal([]byte(rows[key]), &entry); err != nil {
			g.warn(internal.WarnMalformedAnswerBlock, "verpackung", fmt.Sprintf("row %s: %v", key, err))
			return make([]internal.OrderService, 0)
		}
		entries = append(entries, entry)
	}

	for _, entry := range entries {
		if entry.Quantity <= 0 {
			continue
		}
		serv, found := g.catalogs.ServiceByName(entry.Name)
		if !found {
			g.warn(internal.WarnUnresolvedService, "verpackung", fmt.Sprintf("no catalog service named %q", entry.Name))
			continue
		}
		serv.Colli = strconv.FormatFloat(entry.Quantity, 'f', -1, 64)
		services = append(services, serv)
	}
	return services
}

func (g *generator) resolveLampService() {
	g.resolveCountedService("anzahlDer242", serviceLampen, "Lampen service muss aktualisiert werden")
}

func (g *generator) resolveCabinetService() {
	g.resolveCountedService("anzahlDer244", serviceSchraenke, "Schränke service muss aktualisiert werden")
}

func (g *generator) resolveCountedService(answer, serviceName, missingMsg string) {
	count := g.set.TakeString(answer)
	if count == "" {
		return
	}
	serv, found := g.catalogs.ServiceByName(serviceName)
	if !found {
		g.warn(internal.WarnMissingCatalogEntry, answer, missingMsg)
		return
	}
	serv.Colli = count
	g.order.Services = append(g.order.Services, serv)
}

func (g *generator) resolveKitchenService() {
	if !g.takeYes("kucheabbau") {
		return
	}
	laenge := g.set.TakeString("bitteKuchenlange")
	serv, found := g.catalogs.ServiceByName(serviceKueche)
	if !found {
		g.warn(internal.WarnMissingCatalogEntry, "kucheabbau", "Küchen service muss aktualisiert werden")
		return
	}
	if laenge == "" {
		laenge = "0"
	}
	serv.Colli = laenge
	g.order.Services = append(g.order.Services, serv)
}

// sortedRowKeys orders the packaging rows the way the form laid them
// out: numerically where the keys are row indices.
func sortedRowKeys(rows map[string]string) []string {
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}
