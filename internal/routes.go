package internal

import (
	"net/http"

	"mixd/internal/controllers"
	"mixd/internal/providers"
	"mixd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/", http.HandlerFunc(apiController.Home))
	routers.Post("/generate", http.HandlerFunc(apiController.Generate))
	routers.Get("/leaderboard", http.HandlerFunc(apiController.GetLeaderboard))
	routers.Post("/vote", http.HandlerFunc(apiController.Vote))
	routers.Get("/brands", http.HandlerFunc(apiController.GetBrands))
	return routers
}
