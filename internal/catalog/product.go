package catalog

import (
	"sort"
	"strings"
)

type Category string

const (
	CategoryLaptop     Category = "laptop"
	CategoryPhone      Category = "phone"
	CategoryHeadphones Category = "headphones"
	CategorySmartWatch Category = "smart_watch"
	CategoryCamera     Category = "camera"
)

// Product is compared structurally: two products with the same attributes
// are the same catalog entry. Only Name and Description take part in search.
type Product struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      Category `json:"category,omitempty"`
	PriceCents    int64    `json:"price_cents,omitempty"`
	FavoriteCount int      `json:"favorite_count,omitempty"`
}

// Matches reports whether query occurs, case-sensitively, in the name or the
// description.
func (p Product) Matches(query string) bool {
	return strings.Contains(p.Name, query) || strings.Contains(p.Description, query)
}

func (p Product) less(o Product) bool {
	if p.Name != o.Name {
		return p.Name < o.Name
	}
	if p.Description != o.Description {
		return p.Description < o.Description
	}
	if p.Category != o.Category {
		return p.Category < o.Category
	}
	if p.PriceCents != o.PriceCents {
		return p.PriceCents < o.PriceCents
	}
	return p.FavoriteCount < o.FavoriteCount
}

// SortByPrice returns a copy of ps ordered by price ascending, with more
// favourited products first on equal price. Ties keep their input order.
func SortByPrice(ps []Product) []Product {
	out := make([]Product, len(ps))
	copy(out, ps)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PriceCents != out[j].PriceCents {
			return out[i].PriceCents < out[j].PriceCents
		}
		return out[i].FavoriteCount > out[j].FavoriteCount
	})
	return out
}
