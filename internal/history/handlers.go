package history

import (
	"errors"

	"backend-travique/internal/store"
	"backend-travique/internal/trip"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the trip history endpoints. Every route is
// scoped to the authenticated owner.
func RegisterRoutes(r fiber.Router, gw *store.Gateway, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		ownerID, ok := c.Locals("user_id").(string)
		if !ok || ownerID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user")
		}
		trips, err := gw.List(c.Context(), ownerID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if trips == nil {
			trips = []trip.Trip{}
		}
		return c.JSON(trips)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		ownerID, _ := c.Locals("user_id").(string)
		if err := gw.Delete(c.Context(), ownerID, c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/draft", authMiddleware, func(c *fiber.Ctx) error {
		ownerID, _ := c.Locals("user_id").(string)
		var draft trip.Trip
		if err := c.BodyParser(&draft); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		draft.UserID = ownerID
		saved, err := gw.SaveDraft(c.Context(), ownerID, draft)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	})

	r.Get("/draft", authMiddleware, func(c *fiber.Ctx) error {
		ownerID, _ := c.Locals("user_id").(string)
		draft, err := gw.LoadDraft(c.Context(), ownerID)
		if err != nil {
			if errors.Is(err, store.ErrNoDraft) {
				return fiber.NewError(fiber.StatusNotFound, "no saved draft")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(draft)
	})

	r.Post("/unsync", authMiddleware, func(c *fiber.Ctx) error {
		ownerID, _ := c.Locals("user_id").(string)
		if err := gw.MarkAllUnsynced(c.Context(), ownerID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
