// Package businessflow contains the core business logic and use cases for catalog browsing
package businessflow

import (
	"context"

	"github.com/rentalworks/quoting/app/dto"
	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/repository"
	"github.com/rentalworks/quoting/utils"
)

// CatalogFlow exposes the equipment catalog and addon lists to the API
type CatalogFlow interface {
	ListEquipment(ctx context.Context, req *dto.ListEquipmentRequest) (*dto.ListEquipmentResponse, error)
	GetEquipment(ctx context.Context, req *dto.GetEquipmentRequest) (*dto.GetEquipmentResponse, error)
}

// CatalogFlowImpl implements the catalog flow
type CatalogFlowImpl struct {
	equipmentRepo repository.EquipmentRepository
	catalogRepo   repository.CatalogRepository
}

// NewCatalogFlow creates a new catalog flow instance
func NewCatalogFlow(
	equipmentRepo repository.EquipmentRepository,
	catalogRepo repository.CatalogRepository,
) CatalogFlow {
	return &CatalogFlowImpl{
		equipmentRepo: equipmentRepo,
		catalogRepo:   catalogRepo,
	}
}

// ListEquipment lists the active equipment of one domain with pagination
func (s *CatalogFlowImpl) ListEquipment(ctx context.Context, req *dto.ListEquipmentRequest) (*dto.ListEquipmentResponse, error) {
	if _, err := DomainByCode(req.Domain); err != nil {
		return nil, NewBusinessError("UNKNOWN_DOMAIN", "Unknown quoting domain", err)
	}
	if req.Page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "Invalid page", ErrInvalidPage)
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		return nil, NewBusinessError("INVALID_PAGE_SIZE", "Invalid page size", ErrInvalidPageSize)
	}

	filter := models.EquipmentFilter{
		Domain:   &req.Domain,
		IsActive: utils.ToPtr(true),
	}
	offset := (req.Page - 1) * req.PageSize

	items, err := s.equipmentRepo.ByFilter(ctx, filter, "name ASC", req.PageSize, offset)
	if err != nil {
		return nil, NewBusinessError("EQUIPMENT_LIST_FAILED", "Failed to list equipment", err)
	}

	total, err := s.equipmentRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("EQUIPMENT_LIST_FAILED", "Failed to count equipment", err)
	}

	out := make([]dto.EquipmentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toEquipmentDTO(*item))
	}

	return &dto.ListEquipmentResponse{
		Message:   "Equipment listed successfully",
		Equipment: out,
		Total:     total,
		Page:      req.Page,
	}, nil
}

// GetEquipment fetches one equipment entry with its tier table and addon catalogs
func (s *CatalogFlowImpl) GetEquipment(ctx context.Context, req *dto.GetEquipmentRequest) (*dto.GetEquipmentResponse, error) {
	equipment, err := s.equipmentRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("EQUIPMENT_LOOKUP_FAILED", "Failed to lookup equipment", err)
	}
	if equipment == nil {
		return nil, NewBusinessError("EQUIPMENT_NOT_FOUND", "Equipment not found", ErrEquipmentNotFound)
	}

	additional, err := s.catalogRepo.AdditionalEquipmentForEquipment(ctx, equipment.ID)
	if err != nil {
		return nil, NewBusinessError("CATALOG_LOOKUP_FAILED", "Failed to load additional equipment", err)
	}

	accessories, err := s.catalogRepo.AccessoriesForEquipment(ctx, equipment.ID)
	if err != nil {
		return nil, NewBusinessError("CATALOG_LOOKUP_FAILED", "Failed to load accessories", err)
	}

	resp := &dto.GetEquipmentResponse{
		Message:   "Equipment fetched successfully",
		Equipment: toEquipmentDTO(*equipment),
	}
	for _, a := range additional {
		resp.AdditionalEquipment = append(resp.AdditionalEquipment, dto.AddonDTO{
			ID:          a.ID,
			Name:        a.Name,
			PricePerDay: a.PricePerDay,
		})
	}
	for _, a := range accessories {
		resp.Accessories = append(resp.Accessories, dto.AddonDTO{
			ID:          a.ID,
			Name:        a.Name,
			PricePerDay: a.PricePerDay,
		})
	}

	return resp, nil
}

func toEquipmentDTO(equipment models.Equipment) dto.EquipmentDTO {
	tiers := make([]dto.PricingTierDTO, 0, len(equipment.PricingTiers))
	for _, tier := range equipment.PricingTiers {
		tiers = append(tiers, ToPricingTierDTO(tier))
	}

	return dto.EquipmentDTO{
		UUID:              equipment.UUID.String(),
		Domain:            equipment.Domain,
		Name:              equipment.Name,
		Model:             equipment.Model,
		Power:             equipment.Power,
		Dimensions:        equipment.Dimensions,
		Description:       equipment.Description,
		Quantity:          equipment.Quantity,
		AvailableQuantity: equipment.AvailableQuantity,
		PricingTiers:      tiers,
		IsActive:          utils.IsTrue(equipment.IsActive),
	}
}
