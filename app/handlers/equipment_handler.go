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
	businessflow "github.com/rentalworks/quoting/business_flow"
	"github.com/rentalworks/quoting/utils"
)

// EquipmentHandlerInterface defines the contract for equipment handlers
type EquipmentHandlerInterface interface {
	ListEquipment(c fiber.Ctx) error
	GetEquipment(c fiber.Ctx) error
	ListTiers(c fiber.Ctx) error
	ReplaceTiers(c fiber.Ctx) error
}

// EquipmentHandler handles equipment catalog and tier administration HTTP requests
type EquipmentHandler struct {
	catalogFlow businessflow.CatalogFlow
	tierFlow    businessflow.TierAdminFlow
	validator   *validator.Validate
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(catalogFlow businessflow.CatalogFlow, tierFlow businessflow.TierAdminFlow) *EquipmentHandler {
	return &EquipmentHandler{
		catalogFlow: catalogFlow,
		tierFlow:    tierFlow,
		validator:   validator.New(),
	}
}

func (h *EquipmentHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *EquipmentHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListEquipment lists the active equipment of one domain
func (h *EquipmentHandler) ListEquipment(c fiber.Ctx) error {
	req := dto.ListEquipmentRequest{
		Domain:   c.Params("domain"),
		Page:     1,
		PageSize: 20,
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		req.Page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 {
		req.PageSize = v
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.catalogFlow.ListEquipment(h.createRequestContext(c, "/api/v1/catalog/"+req.Domain+"/equipment"), &req)
	if err != nil {
		if businessflow.IsUnknownDomain(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown quoting domain", "UNKNOWN_DOMAIN", nil)
		}

		log.Println("Equipment listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Equipment listing failed", "EQUIPMENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Equipment listed successfully", result)
}

// GetEquipment fetches one equipment entry with its tier table and addon catalogs
func (h *EquipmentHandler) GetEquipment(c fiber.Ctx) error {
	equipmentUUID := c.Params("uuid")
	if equipmentUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Equipment UUID is required", "MISSING_EQUIPMENT_UUID", nil)
	}

	result, err := h.catalogFlow.GetEquipment(h.createRequestContext(c, "/api/v1/equipment/"+equipmentUUID), &dto.GetEquipmentRequest{UUID: equipmentUUID})
	if err != nil {
		if businessflow.IsEquipmentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Equipment not found", "EQUIPMENT_NOT_FOUND", nil)
		}

		log.Println("Equipment lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Equipment lookup failed", "EQUIPMENT_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Equipment fetched successfully", result)
}

// ListTiers returns an equipment's current pricing tier table
func (h *EquipmentHandler) ListTiers(c fiber.Ctx) error {
	equipmentUUID := c.Params("uuid")
	if equipmentUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Equipment UUID is required", "MISSING_EQUIPMENT_UUID", nil)
	}

	result, err := h.tierFlow.ListTiers(h.createRequestContext(c, "/api/v1/equipment/"+equipmentUUID+"/tiers"), equipmentUUID)
	if err != nil {
		if businessflow.IsEquipmentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Equipment not found", "EQUIPMENT_NOT_FOUND", nil)
		}

		log.Println("Tier listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Tier listing failed", "TIER_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pricing tiers listed successfully", result.Tiers)
}

// ReplaceTiers swaps an equipment's complete pricing tier table
func (h *EquipmentHandler) ReplaceTiers(c fiber.Ctx) error {
	equipmentUUID := c.Params("uuid")
	if equipmentUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Equipment UUID is required", "MISSING_EQUIPMENT_UUID", nil)
	}

	var req dto.ReplaceTiersRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.EquipmentUUID = equipmentUUID

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.tierFlow.ReplaceTiers(h.createRequestContext(c, "/api/v1/equipment/"+equipmentUUID+"/tiers"), &req, metadata)
	if err != nil {
		if businessflow.IsEquipmentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Equipment not found", "EQUIPMENT_NOT_FOUND", nil)
		}
		if businessflow.IsInconsistentTierConfiguration(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Tier configuration is inconsistent", "TIER_VALIDATION_FAILED", nil)
		}

		log.Println("Tier replacement failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Tier replacement failed", "TIER_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pricing tiers updated successfully", result.Tiers)
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *EquipmentHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
