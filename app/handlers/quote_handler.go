// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rentalworks/quoting/app/dto"
	"github.com/rentalworks/quoting/app/middleware"
	businessflow "github.com/rentalworks/quoting/business_flow"
	"github.com/rentalworks/quoting/utils"
)

// QuoteHandlerInterface defines the contract for quote handlers
type QuoteHandlerInterface interface {
	CreateQuote(c fiber.Ctx) error
	PriceQuote(c fiber.Ctx) error
	UpdateQuoteLine(c fiber.Ctx) error
	UpdateQuoteStatus(c fiber.Ctx) error
	GetQuote(c fiber.Ctx) error
	ListQuotes(c fiber.Ctx) error
	ExportQuoteBreakdown(c fiber.Ctx) error
}

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	quoteFlow  businessflow.QuoteFlow
	exportFlow businessflow.QuoteExportFlow
	validator  *validator.Validate
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteFlow businessflow.QuoteFlow, exportFlow businessflow.QuoteExportFlow) *QuoteHandler {
	return &QuoteHandler{
		quoteFlow:  quoteFlow,
		exportFlow: exportFlow,
		validator:  validator.New(),
	}
}

func (h *QuoteHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *QuoteHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateQuote handles the quote creation process
func (h *QuoteHandler) CreateQuote(c fiber.Ctx) error {
	var req dto.CreateQuoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.quoteFlow.CreateQuote(h.createRequestContext(c, "/api/v1/quotes"), &req, metadata)
	if err != nil {
		if businessflow.IsUnknownDomain(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown quoting domain", "UNKNOWN_DOMAIN", nil)
		}
		if businessflow.IsClientNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", "CLIENT_NOT_FOUND", nil)
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

		log.Println("Quote creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Quote creation failed", "QUOTE_CREATION_FAILED", nil)
	}

	middleware.RecordQuoteCreated(result.Quote.Domain, "staff")

	return h.SuccessResponse(c, fiber.StatusCreated, "Quote created successfully", result.Quote)
}

// PriceQuote handles the pricing preview process: no persistence, no number
func (h *QuoteHandler) PriceQuote(c fiber.Ctx) error {
	var req dto.PriceQuoteRequest
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

	result, err := h.quoteFlow.PriceQuote(h.createRequestContext(c, "/api/v1/quotes/price"), &req, metadata)
	if err != nil {
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

		log.Println("Quote pricing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Quote pricing failed", "QUOTE_PRICING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quote priced successfully", result)
}

// UpdateQuoteLine handles replacing a single line of a quote
func (h *QuoteHandler) UpdateQuoteLine(c fiber.Ctx) error {
	quoteUUID := c.Params("uuid")
	if quoteUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Quote UUID is required", "MISSING_QUOTE_UUID", nil)
	}

	lineID, err := strconv.ParseUint(c.Params("line_id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid line ID", "INVALID_LINE_ID", nil)
	}

	var req dto.UpdateQuoteLineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.QuoteUUID = quoteUUID
	req.LineID = uint(lineID)

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.quoteFlow.UpdateQuoteLine(h.createRequestContext(c, "/api/v1/quotes/"+quoteUUID+"/lines"), &req, metadata)
	if err != nil {
		if businessflow.IsQuoteNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Quote not found", "QUOTE_NOT_FOUND", nil)
		}
		if businessflow.IsQuoteNotEditable(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Only draft quotes can be edited", "QUOTE_NOT_EDITABLE", nil)
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

		log.Println("Quote line update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Quote line update failed", "QUOTE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quote line updated successfully", result.Quote)
}

// UpdateQuoteStatus handles status changes on a quote
func (h *QuoteHandler) UpdateQuoteStatus(c fiber.Ctx) error {
	quoteUUID := c.Params("uuid")
	if quoteUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Quote UUID is required", "MISSING_QUOTE_UUID", nil)
	}

	var req dto.UpdateQuoteStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.QuoteUUID = quoteUUID

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.quoteFlow.UpdateQuoteStatus(h.createRequestContext(c, "/api/v1/quotes/"+quoteUUID+"/status"), &req, metadata)
	if err != nil {
		if businessflow.IsQuoteNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Quote not found", "QUOTE_NOT_FOUND", nil)
		}

		log.Println("Quote status update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Quote status update failed", "QUOTE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quote status updated successfully", fiber.Map{
		"status": result.Status,
	})
}

// GetQuote fetches one quote by UUID
func (h *QuoteHandler) GetQuote(c fiber.Ctx) error {
	quoteUUID := c.Params("uuid")
	if quoteUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Quote UUID is required", "MISSING_QUOTE_UUID", nil)
	}

	result, err := h.quoteFlow.GetQuote(h.createRequestContext(c, "/api/v1/quotes/"+quoteUUID), &dto.GetQuoteRequest{UUID: quoteUUID})
	if err != nil {
		if businessflow.IsQuoteNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Quote not found", "QUOTE_NOT_FOUND", nil)
		}

		log.Println("Quote lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Quote lookup failed", "QUOTE_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quote fetched successfully", result)
}

// ListQuotes lists quotes with filtering and pagination
func (h *QuoteHandler) ListQuotes(c fiber.Ctx) error {
	req := dto.ListQuotesRequest{
		Page:     1,
		PageSize: 20,
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		req.Page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 {
		req.PageSize = v
	}
	if domain := c.Query("domain"); domain != "" {
		req.Domain = &domain
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}
	if clientUUID := c.Query("client_uuid"); clientUUID != "" {
		req.ClientUUID = &clientUUID
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.quoteFlow.ListQuotes(h.createRequestContext(c, "/api/v1/quotes"), &req)
	if err != nil {
		if businessflow.IsUnknownDomain(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown quoting domain", "UNKNOWN_DOMAIN", nil)
		}
		if businessflow.IsClientNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", "CLIENT_NOT_FOUND", nil)
		}

		log.Println("Quote listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Quote listing failed", "QUOTE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quotes listed successfully", result)
}

// ExportQuoteBreakdown streams a quote's cost breakdown workbook
func (h *QuoteHandler) ExportQuoteBreakdown(c fiber.Ctx) error {
	quoteUUID := c.Params("uuid")
	if quoteUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Quote UUID is required", "MISSING_QUOTE_UUID", nil)
	}

	filename, content, err := h.exportFlow.ExportQuoteBreakdown(h.createRequestContext(c, "/api/v1/quotes/"+quoteUUID+"/export"), &dto.ExportQuoteRequest{UUID: quoteUUID})
	if err != nil {
		if businessflow.IsQuoteNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Quote not found", "QUOTE_NOT_FOUND", nil)
		}

		log.Println("Quote export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Quote export failed", "QUOTE_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *QuoteHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *QuoteHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
