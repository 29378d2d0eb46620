package controller

import (
	"copyforge-be/internal/pkg/serverutils"
	"copyforge-be/internal/service"
	"copyforge-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INotificationController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	MarkRead(ctx *fiber.Ctx) error
}

type notificationController struct {
	notificationService service.INotificationService
}

func NewNotificationController(notificationService service.INotificationService) INotificationController {
	return &notificationController{
		notificationService: notificationService,
	}
}

func (c *notificationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notification/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Put(":id/read", c.MarkRead)
}

func (c *notificationController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.notificationService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notifications", res))
}

func (c *notificationController) MarkRead(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.NewBadRequest("invalid notification id")
	}

	if err := c.notificationService.MarkRead(ctx.Context(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Notification marked read", nil))
}
