package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetlive/fleetlive/pkg/api/routes"
	"github.com/fleetlive/fleetlive/pkg/dashboard"
)

func SetupServer(listen string, loop *dashboard.Loop) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	webApp.Get("version", routes.APIVersion)

	routes.DashboardRouter(webApp.Group("/dashboard"), loop)
	routes.VehiclesRouter(webApp.Group("/vehicles"), loop)
	routes.AlertsRouter(webApp.Group("/alerts"), loop)
	routes.GeofencesRouter(webApp.Group("/geofences"))

	return webApp.Listen(listen)
}
