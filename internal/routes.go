package internal

import (
	"net/http"

	"nicks/internal/controllers"
	"nicks/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/status", http.HandlerFunc(apiController.GetStatus))
	routers.Get("/nick", http.HandlerFunc(apiController.GetNick))
	return routers
}
