// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rentalworks/quoting/app/dto"
	"github.com/rentalworks/quoting/app/middleware"
	"github.com/rentalworks/quoting/app/services"
	businessflow "github.com/rentalworks/quoting/business_flow"
	"github.com/rentalworks/quoting/utils"
)

// ClientQuoteHandlerInterface defines the contract for the anonymous submission handlers
type ClientQuoteHandlerInterface interface {
	GetCaptcha(c fiber.Ctx) error
	SubmitClientQuote(c fiber.Ctx) error
}

// ClientQuoteHandler handles the anonymous quote submission endpoints
type ClientQuoteHandler struct {
	quoteFlow businessflow.QuoteFlow
	captcha   services.CaptchaService
	validator *validator.Validate
}

// NewClientQuoteHandler creates a new client quote handler
func NewClientQuoteHandler(quoteFlow businessflow.QuoteFlow, captcha services.CaptchaService) *ClientQuoteHandler {
	return &ClientQuoteHandler{
		quoteFlow: quoteFlow,
		captcha:   captcha,
		validator: validator.New(),
	}
}

func (h *ClientQuoteHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ClientQuoteHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetCaptcha issues a rotate captcha challenge for the submission form
func (h *ClientQuoteHandler) GetCaptcha(c fiber.Ctx) error {
	challenge, err := h.captcha.GenerateRotate(h.createRequestContext(c, "/api/v1/public/captcha"))
	if err != nil {
		log.Println("Captcha generation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Captcha generation failed", "CAPTCHA_GENERATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Captcha generated successfully", fiber.Map{
		"challenge_id": challenge.ID,
		"master_image": challenge.MasterImageBase64,
		"thumb_image":  challenge.ThumbImageBase64,
	})
}

// SubmitClientQuote accepts an anonymous quote submission
func (h *ClientQuoteHandler) SubmitClientQuote(c fiber.Ctx) error {
	var req dto.SubmitClientQuoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.quoteFlow.SubmitClientQuote(h.createRequestContext(c, "/api/v1/public/quotes"), &req, metadata)
	if err != nil {
		if businessflow.IsCaptchaRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Captcha verification failed", "CAPTCHA_REQUIRED", nil)
		}
		if businessflow.IsUnknownDomain(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown quoting domain", "UNKNOWN_DOMAIN", nil)
		}
		if businessflow.IsEquipmentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Equipment not found", "EQUIPMENT_NOT_FOUND", nil)
		}
		if businessflow.IsNoPricingAvailable(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "No pricing available for the requested rental period", "NO_PRICING_AVAILABLE", nil)
		}
		if businessflow.IsInvalidRiderParameters(err) || businessflow.IsRiderNotAllowedForDomain(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rider configuration", "INVALID_RIDERS", nil)
		}
		if businessflow.IsNumberAllocationExhausted(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Quote numbering is temporarily unavailable", "QUOTE_NUMBER_EXHAUSTED", nil)
		}

		log.Println("Client quote submission failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Quote submission failed", "QUOTE_SUBMISSION_FAILED", nil)
	}

	middleware.RecordQuoteCreated(req.Domain, "client")

	return h.SuccessResponse(c, fiber.StatusCreated, "Quote submitted successfully", fiber.Map{
		"quote_number": result.QuoteNumber,
		"uuid":         result.UUID,
	})
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *ClientQuoteHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
