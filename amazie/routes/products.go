package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iamham/amazie/amazie/controllers"
)

func ProductRoutes(ctrl *controllers.ProductController) chi.Router {
	r := chi.NewRouter()
	// GET /products/ : the whole catalog, for the widget's product cards
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ctrl.List())
	})
	// GET /products/search?q=&category=&max_price=
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		category := r.URL.Query().Get("category")
		maxPrice := 0.0
		if raw := r.URL.Query().Get("max_price"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				http.Error(w, "invalid max_price", http.StatusBadRequest)
				return
			}
			maxPrice = parsed
		}
		json.NewEncoder(w).Encode(ctrl.Search(q, category, maxPrice))
	})
	// GET /products/{sku}
	r.Get("/{sku}", func(w http.ResponseWriter, r *http.Request) {
		sku, err := strconv.Atoi(chi.URLParam(r, "sku"))
		if err != nil {
			http.Error(w, "invalid sku", http.StatusBadRequest)
			return
		}
		product, ok := ctrl.Get(sku)
		if !ok {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(product)
	})
	return r
}
