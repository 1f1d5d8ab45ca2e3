package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iamham/amazie/amazie/controllers"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()
	r.Post("/anonymous", func(w http.ResponseWriter, r *http.Request) {
		token, shopperID, err := ctrl.Anonymous()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"token":      token,
			"shopper_id": shopperID,
		})
	})
	return r
}
