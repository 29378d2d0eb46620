package controller

import (
	"copyforge-be/internal/dto"
	"copyforge-be/internal/pkg/serverutils"
	"copyforge-be/internal/service"
	"copyforge-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	GetJob(ctx *fiber.Ctx) error
}

type generationController struct {
	generationService service.IGenerationService
}

func NewGenerationController(generationService service.IGenerationService) IGenerationController {
	return &generationController{
		generationService: generationService,
	}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generate/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Generate)
	h.Get(":id", c.GetJob)
}

func (c *generationController) Generate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	userEmail, _ := ctx.Locals("user_email").(string)

	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.NewBadRequest("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.Generate(ctx.Context(), userId, userEmail, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Generation job accepted", res))
}

func (c *generationController) GetJob(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	jobId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.NewBadRequest("invalid job id")
	}

	res, err := c.generationService.GetJob(ctx.Context(), userId, jobId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Job status", res))
}
