package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/fleetlive/fleetlive/pkg/dashboard"
)

func VehiclesRouter(router fiber.Router, loop *dashboard.Loop) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listVehicles(c, loop)
	})
}

func listVehicles(c *fiber.Ctx, loop *dashboard.Loop) error {
	vehicles := loop.Vehicles()

	if expressionSource := c.Query("expr"); expressionSource != "" {
		program, err := dashboard.CompileExpression(expressionSource)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Invalid filter expression",
			})
		}

		vehicles, err = dashboard.ProjectExpression(vehicles, program)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Filter expression failed to evaluate",
			})
		}
	}

	vehiclesReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, vehicles)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Vehicles",
		})
	}

	return c.JSON(vehiclesReduced)
}
