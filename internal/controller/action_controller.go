package controller

import (
	"copyforge-be/internal/dto"
	"copyforge-be/internal/pkg/serverutils"
	"copyforge-be/internal/service"
	"copyforge-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IActionController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type actionController struct {
	actionService service.IActionService
}

func NewActionController(actionService service.IActionService) IActionController {
	return &actionController{
		actionService: actionService,
	}
}

func (c *actionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/action/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("sessions/:id/:type", c.Run)
	h.Get(":id", c.Status)
}

func (c *actionController) Run(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.NewBadRequest("invalid session id")
	}
	actionType := ctx.Params("type")

	var req dto.ActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.NewBadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.actionService.Run(ctx.Context(), userId, sessionId, actionType, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Action accepted", res))
}

func (c *actionController) Status(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	actionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.NewBadRequest("invalid action id")
	}

	res, err := c.actionService.GetStatus(ctx.Context(), userId, actionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Action status", res))
}
