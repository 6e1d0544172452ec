package order

import (
	"errors"
	"testing"

	"umzug/internal"
)

func TestSplitFurnitureBlockIsExclusive(t *testing.T) {
	answers := []internal.Answer{
		{Name: "before", Order: 5, Value: "x"},
		{Name: sentinelStart, Order: 10, Value: "Möbel"},
		{Name: "stuhl-esszimmer", Order: 15, Value: "4", Text: "Stuhl"},
		{Name: sentinelEnd, Order: 20, Value: "Ende"},
		{Name: "after", Order: 25, Value: "y"},
	}

	cluster, rest, err := splitFurnitureBlock(answers)
	if err != nil {
		t.Fatal(err)
	}
	if len(cluster) != 1 || cluster[0].Name != "stuhl-esszimmer" {
		t.Fatalf("cluster: %+v", cluster)
	}
	if len(rest) != 2 {
		t.Fatalf("rest: %+v", rest)
	}
	for _, a := range rest {
		if a.Name == sentinelStart || a.Name == sentinelEnd {
			t.Fatalf("sentinel leaked into rest: %s", a.Name)
		}
	}
}

func TestSplitFurnitureBlockBoundaryOrders(t *testing.T) {
	// An answer sharing a sentinel's order value sits outside the cluster.
	answers := []internal.Answer{
		{Name: sentinelStart, Order: 10, Value: "x"},
		{Name: "same-as-start", Order: 10, Value: "x"},
		{Name: "inside", Order: 11, Value: "x"},
		{Name: "same-as-end", Order: 20, Value: "x"},
		{Name: sentinelEnd, Order: 20, Value: "x"},
	}
	cluster, _, err := splitFurnitureBlock(answers)
	if err != nil {
		t.Fatal(err)
	}
	if len(cluster) != 1 || cluster[0].Name != "inside" {
		t.Fatalf("cluster: %+v", cluster)
	}
}

func TestSplitFurnitureBlockMissingSentinel(t *testing.T) {
	cases := []struct {
		name    string
		answers []internal.Answer
	}{
		{name: "no start", answers: []internal.Answer{{Name: sentinelEnd, Order: 20, Value: "x"}}},
		{name: "no end", answers: []internal.Answer{{Name: sentinelStart, Order: 10, Value: "x"}}},
		{name: "neither", answers: []internal.Answer{{Name: "foo", Order: 1, Value: "x"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := splitFurnitureBlock(tc.answers)
			if !errors.Is(err, ErrMissingSentinel) {
				t.Fatalf("got %v, want ErrMissingSentinel", err)
			}
		})
	}
}

func TestCategoryFor(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{name: "sofa-grosses_wohnzimmer", want: "SOFA"},
		{name: "stuhl-esszimmer", want: "STUHL"},
		{name: "-esszimmer", want: "Allgemein"},
		{name: "_esszimmer", want: "Allgemein"},
		{name: "bett", want: "BETT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := categoryFor(tc.name); got != tc.want {
				t.Fatalf("categoryFor(%q)=%q want %q", tc.name, got, tc.want)
			}
		})
	}
}

func TestFurnitureFromCluster(t *testing.T) {
	items := furnitureFromCluster([]internal.Answer{
		{Name: "stuhl-esszimmer", Order: 15, Value: "4", Text: "Stuhl"},
	})
	if len(items) != 1 {
		t.Fatalf("items: %+v", items)
	}
	want := internal.Furniture{Name: "Stuhl", SelectedCategory: "STUHL", Colli: "4"}
	if items[0] != want {
		t.Fatalf("got %+v want %+v", items[0], want)
	}
}
