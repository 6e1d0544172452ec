package order

import (
	"errors"
	"fmt"
	"strings"

	"umzug/internal"
)

// The repeating furniture sub-form is delimited by two marker fields in
// the form; everything strictly between their positions belongs to it.
const (
	sentinelStart = "moebelblock"
	sentinelEnd   = "moebelblockEnde"
)

const fallbackCategory = "Allgemein"

// ErrMissingSentinel means one of the furniture block markers was absent
// from the submission, so the block boundaries are undefined.
var ErrMissingSentinel = errors.New("furniture block sentinel missing")

// splitFurnitureBlock partitions the normalized answer stream into the
// furniture cluster and the remainder that feeds every other step. The
// range is exclusive on both ends, so the sentinels themselves land in
// neither half.
func splitFurnitureBlock(answers []internal.Answer) (cluster, rest []internal.Answer, err error) {
	start, end := -1, -1
	for _, a := range answers {
		switch a.Name {
		case sentinelStart:
			start = a.Order
		case sentinelEnd:
			end = a.Order
		}
	}
	if start < 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingSentinel, sentinelStart)
	}
	if end < 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingSentinel, sentinelEnd)
	}

	for _, a := range answers {
		switch {
		case a.Order > start && a.Order < end:
			cluster = append(cluster, a)
		case a.Order < start || a.Order > end:
			rest = append(rest, a)
		}
	}
	return cluster, rest, nil
}

// furnitureFromCluster converts each furniture answer into a line item.
// The display name comes from the field label, the quantity from the
// answer value, the category from the field name slug.
func furnitureFromCluster(cluster []internal.Answer) []internal.Furniture {
	items := make([]internal.Furniture, 0, len(cluster))
	for _, a := range cluster {
		items = append(items, internal.Furniture{
			Name:             a.Text,
			SelectedCategory: categoryFor(a.Name),
			Colli:            stringValue(a.Value),
		})
	}
	return items
}

// categoryFor derives the category tag from a field name such as
// "sofa-grosses_wohnzimmer": the first dash becomes an underscore, the
// leading segment is uppercased. An empty slug falls back to Allgemein.
func categoryFor(name string) string {
	slug := strings.Replace(name, "-", "_", 1)
	slug = strings.SplitN(slug, "_", 2)[0]
	slug = strings.ToUpper(slug)
	if slug == "" {
		return fallbackCategory
	}
	return slug
}
