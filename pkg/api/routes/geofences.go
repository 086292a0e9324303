package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/fleetlive/fleetlive/pkg/registry"
)

func GeofencesRouter(router fiber.Router) {
	router.Get("/", listGeofences)
}

func listGeofences(c *fiber.Ctx) error {
	geofences, err := registry.GetGeofences()
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not load geofences",
		})
	}

	geofencesReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, geofences)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Geofences",
		})
	}

	return c.JSON(geofencesReduced)
}
