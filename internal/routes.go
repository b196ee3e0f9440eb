package internal

import (
	"net/http"

	"acctrack/internal/controllers"
	"acctrack/internal/providers"
	"acctrack/internal/structures"
)

// InitRoutes lists the API routes relative to the /api mount point.
func InitRoutes(accountController *controllers.AccountController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/accounts", http.HandlerFunc(accountController.List))
	routers.Post("/accounts", http.HandlerFunc(accountController.Create))
	routers.Put("/accounts", http.HandlerFunc(accountController.Replace))
	routers.Get("/accounts/{id}", http.HandlerFunc(accountController.Get))
	routers.Delete("/accounts/{id}", http.HandlerFunc(accountController.Delete))
	routers.Post("/accounts/{id}/toggle", http.HandlerFunc(accountController.Toggle))
	return routers
}
