package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Product is one catalog entry. The catalog is loaded once at startup and
// never mutated, so Product values can be shared freely across goroutines.
type Product struct {
	SKU         int      `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	ImageURL    string   `json:"imageUrl"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// SearchParams carries the arguments of one search invocation. All fields
// are optional; the JSON names match the searchProducts tool schema.
type SearchParams struct {
	Query    string  `json:"query,omitempty"`
	Category string  `json:"category,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
}

type Catalog struct {
	products []Product
}

func New(products []Product) *Catalog {
	return &Catalog{products: products}
}

// Load reads the product list from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(products), nil
}

// Products returns a copy of the full catalog in load order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) Get(sku int) (Product, bool) {
	for _, p := range c.products {
		if p.SKU == sku {
			return p, true
		}
	}
	return Product{}, false
}

// Relevance weights. Name hits rank above tag hits, tag hits above
// category and description hits; an exact category match ranks with a
// name hit so query+category products surface first.
const (
	scoreName          = 4
	scoreTag           = 3
	scoreCategorySub   = 2
	scoreDescription   = 1
	scoreCategoryExact = 4
)

// Search ranks and filters the catalog by free-text relevance and/or
// category. Matching is case-insensitive substring matching over name,
// description, category and tags; a supplied category matches the
// product's category exactly or fuzzily. Results are ordered most
// relevant first, ties keep catalog order, and the caller truncates.
// No match yields an empty slice, never an error. Search is pure and
// safe for concurrent use.
func (c *Catalog) Search(params SearchParams) []Product {
	query := strings.ToLower(strings.TrimSpace(params.Query))
	category := strings.ToLower(strings.TrimSpace(params.Category))
	if query == "" && category == "" && params.MaxPrice <= 0 {
		return nil
	}

	type scored struct {
		product Product
		score   int
	}
	var matches []scored
	for _, p := range c.products {
		if params.MaxPrice > 0 && p.Price > params.MaxPrice {
			continue
		}
		score := relevance(p, query, category)
		if score == 0 && (query != "" || category != "") {
			continue
		}
		matches = append(matches, scored{product: p, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]Product, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.product)
	}
	return out
}

func relevance(p Product, query, category string) int {
	score := 0
	if query != "" {
		if strings.Contains(strings.ToLower(p.Name), query) {
			score += scoreName
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				score += scoreTag
				break
			}
		}
		if strings.Contains(strings.ToLower(p.Category), query) {
			score += scoreCategorySub
		}
		if strings.Contains(strings.ToLower(p.Description), query) {
			score += scoreDescription
		}
	}
	if category != "" {
		productCategory := strings.ToLower(p.Category)
		switch {
		case productCategory == category:
			score += scoreCategoryExact
		case strings.Contains(productCategory, category) || strings.Contains(category, productCategory):
			score += scoreCategorySub
		}
	}
	return score
}
