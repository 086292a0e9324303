package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	iso8601 "github.com/senseyeio/duration"

	"github.com/fleetlive/fleetlive/pkg/dashboard"
	"github.com/fleetlive/fleetlive/pkg/fleet"
)

func AlertsRouter(router fiber.Router, loop *dashboard.Loop) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listAlerts(c, loop)
	})

	router.Post("/:identifier/read", func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")
		loop.Do(func(engine *dashboard.Engine) {
			engine.MarkAlertRead(identifier)
		})
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
}

func listAlerts(c *fiber.Ctx, loop *dashboard.Loop) error {
	alerts := loop.Alerts()

	// since is an ISO8601 duration looking back from now, eg. PT1H
	if sinceQuery := c.Query("since"); sinceQuery != "" {
		sinceDuration, err := iso8601.ParseISO8601(sinceQuery)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter since should be an ISO8601 duration",
			})
		}

		now := time.Now()
		cutoff := now.Add(-sinceDuration.Shift(now).Sub(now))

		recent := []fleet.Alert{}
		for _, alert := range alerts {
			if alert.Timestamp.After(cutoff) {
				recent = append(recent, alert)
			}
		}
		alerts = recent
	}

	alertsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, alerts)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Alerts",
		})
	}

	return c.JSON(alertsReduced)
}
