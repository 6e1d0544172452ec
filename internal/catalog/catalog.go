package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"umzug/internal"
)

// Catalogs bundles the three read-only reference lists an order
// generation run resolves against.
type Catalogs struct {
	Services   []internal.OrderService
	Items      []internal.Furniture
	Categories []internal.Category
}

// ServiceByName resolves a bookable service by exact name.
func (c Catalogs) ServiceByName(name string) (internal.OrderService, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return internal.OrderService{}, false
}

// ItemByName resolves a catalog furniture item by exact name.
func (c Catalogs) ItemByName(name string) (internal.Furniture, bool) {
	for _, i := range c.Items {
		if i.Name == name {
			return i, true
		}
	}
	return internal.Furniture{}, false
}

type catalogFile struct {
	Services   []internal.OrderService `json:"services"`
	Items      []internal.Furniture    `json:"items"`
	Categories []internal.Category     `json:"categories"`
}

// LoadFile reads a catalog bundle from a JSON file, the format the
// company backend exports.
func LoadFile(path string) (Catalogs, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Catalogs{}, err
	}
	var file catalogFile
	if err := json.Unmarshal(blob, &file); err != nil {
		return Catalogs{}, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return Catalogs{Services: file.Services, Items: file.Items, Categories: file.Categories}, nil
}
