package controllers

import "github.com/iamham/amazie/amazie/catalog"

type ProductController struct {
	catalog *catalog.Catalog
}

func NewProductController(cat *catalog.Catalog) *ProductController {
	return &ProductController{catalog: cat}
}

func (c *ProductController) List() []catalog.Product {
	return c.catalog.Products()
}

func (c *ProductController) Get(sku int) (catalog.Product, bool) {
	return c.catalog.Get(sku)
}

func (c *ProductController) Search(query, category string, maxPrice float64) []catalog.Product {
	return c.catalog.Search(catalog.SearchParams{
		Query:    query,
		Category: category,
		MaxPrice: maxPrice,
	})
}
