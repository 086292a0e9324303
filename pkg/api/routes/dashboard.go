package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/fleetlive/fleetlive/pkg/dashboard"
)

func DashboardRouter(router fiber.Router, loop *dashboard.Loop) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getViewModel(c, loop)
	})

	router.Post("/select/:identifier", func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")
		loop.Do(func(engine *dashboard.Engine) {
			engine.SelectVehicle(identifier)
		})
		return getViewModel(c, loop)
	})

	router.Post("/close", func(c *fiber.Ctx) error {
		loop.Do(func(engine *dashboard.Engine) {
			engine.CloseDetail()
		})
		return getViewModel(c, loop)
	})

	router.Post("/follow", func(c *fiber.Ctx) error {
		loop.Do(func(engine *dashboard.Engine) {
			engine.ToggleFollow()
		})
		return getViewModel(c, loop)
	})

	router.Post("/query", func(c *fiber.Ctx) error {
		query := c.Query("q")
		loop.Do(func(engine *dashboard.Engine) {
			engine.SetQuery(query)
		})
		return getViewModel(c, loop)
	})

	router.Post("/filter/:filter", func(c *fiber.Ctx) error {
		filter := dashboard.FilterKey(c.Params("filter"))
		if !filter.Valid() {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Unknown filter key",
			})
		}

		loop.Do(func(engine *dashboard.Engine) {
			engine.SetFilter(filter)
		})
		return getViewModel(c, loop)
	})
}

// getViewModel reads the view model through the loop, so the response
// reflects every command posted before it on this request.
func getViewModel(c *fiber.Ctx, loop *dashboard.Loop) error {
	viewModel := loop.ViewModel()

	viewModelReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, viewModel)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce ViewModel",
		})
	}

	return c.JSON(viewModelReduced)
}
