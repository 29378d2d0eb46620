package controller

import (
	"copyforge-be/internal/dto"
	"copyforge-be/internal/pkg/serverutils"
	"copyforge-be/internal/service"
	"copyforge-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type IPainPointController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Match(ctx *fiber.Ctx) error
}

type painPointController struct {
	painPointService service.IPainPointService
}

func NewPainPointController(painPointService service.IPainPointService) IPainPointController {
	return &painPointController{
		painPointService: painPointService,
	}
}

func (c *painPointController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/painpoint/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Post("match", c.Match)
}

func (c *painPointController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePainPointRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.NewBadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.painPointService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pain point created", res))
}

func (c *painPointController) List(ctx *fiber.Ctx) error {
	res, err := c.painPointService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pain points", res))
}

func (c *painPointController) Match(ctx *fiber.Ctx) error {
	var req dto.MatchPainPointsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.NewBadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.painPointService.Match(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Matched pain points", res))
}
