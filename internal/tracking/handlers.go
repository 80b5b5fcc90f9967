package tracking

import (
	"errors"

	"backend-travique/internal/trip"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, mgr *Manager, feed *FeedSource, authMiddleware fiber.Handler) {
	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		var draft trip.Trip
		if err := c.BodyParser(&draft); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if userID, ok := c.Locals("user_id").(string); ok && draft.UserID == "" {
			draft.UserID = userID
		}

		session, err := mgr.StartTrip(c.Context(), draft)
		if err != nil {
			var verr *trip.ValidationError
			switch {
			case errors.As(err, &verr):
				return fiber.NewError(fiber.StatusBadRequest, verr.Error())
			case errors.Is(err, ErrAlreadyTracking):
				return fiber.NewError(fiber.StatusConflict, err.Error())
			case errors.Is(err, ErrNotStartable):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.Status(fiber.StatusCreated).JSON(session.Snapshot())
	})

	r.Post("/samples", authMiddleware, func(c *fiber.Ctx) error {
		var sample Sample
		if err := c.BodyParser(&sample); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		delivered := feed.Push(sample)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"delivered": delivered})
	})

	r.Post("/errors", authMiddleware, func(c *fiber.Ctx) error {
		var srcErr SourceError
		if err := c.BodyParser(&srcErr); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if srcErr.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "error code required")
		}
		delivered := feed.Fail(srcErr)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"delivered": delivered})
	})

	r.Post("/stop", authMiddleware, func(c *fiber.Ctx) error {
		finished, wasTracking := mgr.StopActiveTrip(c.Context())
		if !wasTracking {
			return c.JSON(fiber.Map{"stopped": false})
		}
		return c.JSON(finished)
	})

	r.Get("/snapshot", authMiddleware, func(c *fiber.Ctx) error {
		snapshot, ok := mgr.Snapshot()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no active trip")
		}
		return c.JSON(snapshot)
	})
}
