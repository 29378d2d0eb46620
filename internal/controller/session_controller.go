package controller

import (
	"copyforge-be/internal/pkg/serverutils"
	"copyforge-be/internal/service"
	"copyforge-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Archive(ctx *fiber.Ctx) error
	Unarchive(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id/archive", c.Archive)
	h.Put(":id/unarchive", c.Unarchive)
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	includeArchived := ctx.QueryBool("include_archived", false)

	res, err := c.sessionService.List(ctx.Context(), userId, includeArchived)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Sessions", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.NewBadRequest("invalid session id")
	}

	res, err := c.sessionService.Get(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session", res))
}

func (c *sessionController) Archive(ctx *fiber.Ctx) error {
	return c.setArchived(ctx, true)
}

func (c *sessionController) Unarchive(ctx *fiber.Ctx) error {
	return c.setArchived(ctx, false)
}

func (c *sessionController) setArchived(ctx *fiber.Ctx, archived bool) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.NewBadRequest("invalid session id")
	}

	if err := c.sessionService.SetArchived(ctx.Context(), userId, sessionId, archived); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session updated", nil))
}
