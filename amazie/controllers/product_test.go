package controllers

import (
	"testing"

	"github.com/iamham/amazie/amazie/catalog"
)

func newProductTestController() *ProductController {
	return NewProductController(catalog.New([]catalog.Product{
		{SKU: 1, Name: "Crimson Wrap Dress", Description: "Flowy red midi dress", Price: 1290, Currency: "THB", Category: "Clothing", Tags: []string{"dress", "red"}},
		{SKU: 2, Name: "Teak Reading Lamp", Description: "Handmade wooden table lamp", Price: 2190, Currency: "THB", Category: "Home", Tags: []string{"lamp"}},
	}))
}

func TestProductList(t *testing.T) {
	c := newProductTestController()
	if got := len(c.List()); got != 2 {
		t.Errorf("List returned %d products", got)
	}
}

func TestProductGet(t *testing.T) {
	c := newProductTestController()
	p, ok := c.Get(2)
	if !ok || p.Name != "Teak Reading Lamp" {
		t.Errorf("Get(2) = %+v, %v", p, ok)
	}
	if _, ok := c.Get(99); ok {
		t.Error("Get(99) should miss")
	}
}

func TestProductSearch(t *testing.T) {
	c := newProductTestController()
	results := c.Search("red dress", "", 0)
	if len(results) == 0 || results[0].SKU != 1 {
		t.Errorf("Search returned %+v", results)
	}
	if got := c.Search("lamp", "", 1000); len(got) != 0 {
		t.Errorf("price cap should exclude the lamp, got %+v", got)
	}
}
