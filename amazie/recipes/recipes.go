// Package recipes holds the static recipe book behind the getRecipe tool.
package recipes

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Ingredient struct {
	Name string `yaml:"name" json:"name"`
	SKU  int    `yaml:"sku,omitempty" json:"sku,omitempty"`
}

type Recipe struct {
	Dish        string       `yaml:"dish" json:"dish"`
	Aliases     []string     `yaml:"aliases,omitempty" json:"-"`
	Steps       []string     `yaml:"steps" json:"steps"`
	Ingredients []Ingredient `yaml:"ingredients" json:"ingredients"`
}

type Book struct {
	recipes []Recipe
}

func New(recipes []Recipe) *Book {
	return &Book{recipes: recipes}
}

// Load reads the recipe book from a YAML file.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}
	var doc struct {
		Recipes []Recipe `yaml:"recipes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse recipes: %w", err)
	}
	return New(doc.Recipes), nil
}

func (b *Book) Len() int {
	return len(b.recipes)
}

// Lookup finds a recipe by dish name, case-insensitively. Aliases and
// substring matches count, so "green curry", "Gaeng Keow Wan" and
// "thai green curry" all resolve to the same dish.
func (b *Book) Lookup(dish string) (Recipe, bool) {
	needle := strings.ToLower(strings.TrimSpace(dish))
	if needle == "" {
		return Recipe{}, false
	}
	for _, r := range b.recipes {
		if matchesDish(r, needle) {
			return r, true
		}
	}
	return Recipe{}, false
}

func matchesDish(r Recipe, needle string) bool {
	names := append([]string{r.Dish}, r.Aliases...)
	for _, name := range names {
		candidate := strings.ToLower(name)
		if candidate == needle ||
			strings.Contains(candidate, needle) ||
			strings.Contains(needle, candidate) {
			return true
		}
	}
	return false
}
