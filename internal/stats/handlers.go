package stats

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		ownerID, ok := c.Locals("user_id").(string)
		if !ok || ownerID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user")
		}
		summary, err := svc.Compute(c.Context(), ownerID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(summary)
	})
}
