package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/iamham/amazie/amazie/controllers"
)

func HealthRoutes(ctrl *controllers.HealthController) chi.Router {
	r := chi.NewRouter()
	r.Get("/", ctrl.HealthCheck)
	return r
}
