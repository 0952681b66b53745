package controller

import (
	"errors"
	"io"

	"ai-verification-be/internal/dto"
	"ai-verification-be/internal/pkg/serverutils"
	"ai-verification-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVerificationController interface {
	RegisterRoutes(r fiber.Router)
	Verify(ctx *fiber.Ctx) error
}

type verificationController struct {
	service service.IVerificationService
}

func NewVerificationController(service service.IVerificationService) IVerificationController {
	return &verificationController{service: service}
}

func (c *verificationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/contribution/v1")
	h.Post("/verify", c.Verify)
}

// Verify scores an uploaded document (multipart: onchain_campaign_id, wallet_address, file)
func (c *verificationController) Verify(ctx *fiber.Ctx) error {
	var req dto.VerifyContributionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form body")
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Document file is required"))
	}
	req.FileName = file.Filename

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	f, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unable to read uploaded file")
	}
	defer f.Close()

	req.Data, err = io.ReadAll(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unable to read uploaded file")
	}

	res, err := c.service.VerifyContribution(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Campaign not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Verification failed")
	}

	return ctx.JSON(serverutils.SuccessResponse("Contribution verified", res))
}
