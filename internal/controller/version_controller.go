package controller

import (
	"copyforge-be/internal/dto"
	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/serverutils"
	"copyforge-be/internal/service"
	"copyforge-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IVersionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Active(ctx *fiber.Ctx) error
	Activate(ctx *fiber.Ctx) error
}

type versionController struct {
	versionService service.IVersionService
	sessionService service.ISessionService
}

func NewVersionController(versionService service.IVersionService, sessionService service.ISessionService) IVersionController {
	return &versionController{
		versionService: versionService,
		sessionService: sessionService,
	}
}

func (c *versionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1/:id/versions")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get("active", c.Active)
	h.Put("activate", c.Activate)
}

// ownedSession resolves the path session and enforces ownership before
// any version operation.
func (c *versionController) ownedSession(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.NewBadRequest("invalid session id")
	}

	if _, err := c.sessionService.Get(ctx.Context(), userId, sessionId); err != nil {
		return uuid.Nil, err
	}
	return sessionId, nil
}

func (c *versionController) List(ctx *fiber.Ctx) error {
	sessionId, err := c.ownedSession(ctx)
	if err != nil {
		return err
	}

	versions, err := c.versionService.ListVersions(ctx.Context(), sessionId, ctx.Query("asset_type"))
	if err != nil {
		return err
	}

	res := make([]*dto.VersionResponse, 0, len(versions))
	for _, v := range versions {
		res = append(res, versionResponse(v))
	}
	return ctx.JSON(serverutils.SuccessResponse("Versions", res))
}

func (c *versionController) Active(ctx *fiber.Ctx) error {
	sessionId, err := c.ownedSession(ctx)
	if err != nil {
		return err
	}

	assetType := ctx.Query("asset_type")
	if assetType == "" {
		return apperr.NewBadRequest("asset_type query parameter is required")
	}

	version, err := c.versionService.GetActiveVersion(ctx.Context(), sessionId, assetType)
	if err != nil {
		return err
	}
	if version == nil {
		return apperr.NewNotFound("no versions for asset type")
	}
	return ctx.JSON(serverutils.SuccessResponse("Active version", versionResponse(version)))
}

func (c *versionController) Activate(ctx *fiber.Ctx) error {
	sessionId, err := c.ownedSession(ctx)
	if err != nil {
		return err
	}

	var req dto.ActivateVersionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.NewBadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	version, err := c.versionService.ActivateVersion(ctx.Context(), sessionId, req.VersionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Version activated", versionResponse(version)))
}

func versionResponse(v *entity.SessionVersion) *dto.VersionResponse {
	return &dto.VersionResponse{
		Id:            v.Id,
		AssetType:     v.AssetType,
		VersionNumber: v.VersionNumber,
		Content:       v.Content,
		Source:        string(v.Source),
		SourceDetail:  v.SourceDetail,
		Scores:        v.Scores,
		PassesGates:   v.PassesGates,
		IsActive:      v.IsActive,
		CreatedAt:     v.CreatedAt,
	}
}
