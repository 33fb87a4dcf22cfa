// Package businessflow contains the core business logic and use cases for quote workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rentalworks/quoting/app/dto"
	"github.com/rentalworks/quoting/app/middleware"
	"github.com/rentalworks/quoting/app/services"
	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/repository"
	"github.com/rentalworks/quoting/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteFlow handles the quote business logic
type QuoteFlow interface {
	CreateQuote(ctx context.Context, req *dto.CreateQuoteRequest, metadata *ClientMetadata) (*dto.CreateQuoteResponse, error)
	PriceQuote(ctx context.Context, req *dto.PriceQuoteRequest, metadata *ClientMetadata) (*dto.PriceQuoteResponse, error)
	UpdateQuoteLine(ctx context.Context, req *dto.UpdateQuoteLineRequest, metadata *ClientMetadata) (*dto.UpdateQuoteLineResponse, error)
	UpdateQuoteStatus(ctx context.Context, req *dto.UpdateQuoteStatusRequest, metadata *ClientMetadata) (*dto.UpdateQuoteStatusResponse, error)
	GetQuote(ctx context.Context, req *dto.GetQuoteRequest) (*dto.QuoteDTO, error)
	ListQuotes(ctx context.Context, req *dto.ListQuotesRequest) (*dto.ListQuotesResponse, error)
	SubmitClientQuote(ctx context.Context, req *dto.SubmitClientQuoteRequest, metadata *ClientMetadata) (*dto.SubmitClientQuoteResponse, error)
}

// QuoteFlowImpl implements the quote business flow
type QuoteFlowImpl struct {
	quoteRepo     repository.QuoteRepository
	equipmentRepo repository.EquipmentRepository
	clientRepo    repository.ClientRepository
	catalogRepo   repository.CatalogRepository
	allocator     SequenceAllocator
	captcha       services.CaptchaService
	db            *gorm.DB
}

// NewQuoteFlow creates a new quote flow instance
func NewQuoteFlow(
	quoteRepo repository.QuoteRepository,
	equipmentRepo repository.EquipmentRepository,
	clientRepo repository.ClientRepository,
	catalogRepo repository.CatalogRepository,
	allocator SequenceAllocator,
	captcha services.CaptchaService,
	db *gorm.DB,
) QuoteFlow {
	return &QuoteFlowImpl{
		quoteRepo:     quoteRepo,
		equipmentRepo: equipmentRepo,
		clientRepo:    clientRepo,
		catalogRepo:   catalogRepo,
		allocator:     allocator,
		captcha:       captcha,
		db:            db,
	}
}

// CreateQuote handles the complete quote creation process: price every line,
// compute totals, allocate the document number and persist atomically.
func (s *QuoteFlowImpl) CreateQuote(ctx context.Context, req *dto.CreateQuoteRequest, metadata *ClientMetadata) (*dto.CreateQuoteResponse, error) {
	domain, err := DomainByCode(req.Domain)
	if err != nil {
		return nil, NewBusinessError("UNKNOWN_DOMAIN", "Unknown quoting domain", err)
	}

	client, err := s.clientRepo.ByUUID(ctx, req.ClientUUID)
	if err != nil {
		return nil, NewBusinessError("CLIENT_LOOKUP_FAILED", "Failed to lookup client", err)
	}
	if client == nil {
		return nil, NewBusinessError("CLIENT_NOT_FOUND", "Client not found", ErrClientNotFound)
	}

	lines, err := s.priceLines(ctx, domain, req.Lines)
	if err != nil {
		return nil, NewBusinessError("QUOTE_PRICING_FAILED", "Quote pricing failed", err)
	}

	vatRate := domain.DefaultVATRate
	if req.VATRate != nil {
		vatRate = *req.VATRate
	}
	totals := ComputeTotals(lineTotals(lines), vatRate)

	// Allocate outside the persistence transaction: the counter's row lock
	// must not be held across the quote write, and a value once handed out
	// stays claimed. A persist failure after this point leaves a gap in the
	// sequence, never a duplicate.
	now := utils.UTCNow()
	seq, err := s.allocator.Allocate(ctx, NewSequenceKey(domain.Code, now))
	if err != nil {
		middleware.RecordNumberAllocation(domain.Code, "exhausted")
		return nil, NewBusinessError("NUMBER_ALLOCATION_FAILED", "Document number allocation failed", err)
	}
	middleware.RecordNumberAllocation(domain.Code, "ok")
	number := domain.FormatNumber(seq, utils.PeriodOf(now))

	var quote *models.Quote

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		quote = &models.Quote{
			UUID:        uuid.New(),
			Domain:      domain.Code,
			ClientID:    client.ID,
			QuoteNumber: number,
			LineItems:   lines,
			TotalNet:    totals.TotalNet,
			VATRate:     totals.VATRate,
			TotalGross:  totals.TotalGross,
			Status:      models.QuoteStatusDraft,
		}

		return s.quoteRepo.Save(txCtx, quote)
	})

	if err != nil {
		return nil, NewBusinessError("QUOTE_CREATION_FAILED", "Quote creation failed", err)
	}

	quote.Client = client

	return &dto.CreateQuoteResponse{
		Message: "Quote created successfully",
		Quote:   ToQuoteDTO(*quote),
	}, nil
}

// PriceQuote computes a pricing preview without persisting anything and
// without consuming a document number.
func (s *QuoteFlowImpl) PriceQuote(ctx context.Context, req *dto.PriceQuoteRequest, metadata *ClientMetadata) (*dto.PriceQuoteResponse, error) {
	domain, err := DomainByCode(req.Domain)
	if err != nil {
		return nil, NewBusinessError("UNKNOWN_DOMAIN", "Unknown quoting domain", err)
	}

	lines, err := s.priceLines(ctx, domain, req.Lines)
	if err != nil {
		return nil, NewBusinessError("QUOTE_PRICING_FAILED", "Quote pricing failed", err)
	}

	vatRate := domain.DefaultVATRate
	if req.VATRate != nil {
		vatRate = *req.VATRate
	}
	totals := ComputeTotals(lineTotals(lines), vatRate)

	lineDTOs := make([]dto.QuoteLineDTO, 0, len(lines))
	for _, line := range lines {
		lineDTOs = append(lineDTOs, ToQuoteLineDTO(line))
	}

	return &dto.PriceQuoteResponse{
		Message:    "Quote priced successfully",
		Lines:      lineDTOs,
		TotalNet:   totals.TotalNet,
		VATRate:    totals.VATRate,
		TotalGross: totals.TotalGross,
	}, nil
}

// UpdateQuoteLine replaces one line, reprices it from scratch and recomputes
// the quote totals from all lines. Totals are never adjusted incrementally.
// Only draft quotes accept line edits.
func (s *QuoteFlowImpl) UpdateQuoteLine(ctx context.Context, req *dto.UpdateQuoteLineRequest, metadata *ClientMetadata) (*dto.UpdateQuoteLineResponse, error) {
	quote, err := s.getQuote(ctx, req.QuoteUUID)
	if err != nil {
		return nil, err
	}

	if quote.Status != models.QuoteStatusDraft {
		return nil, NewBusinessError("QUOTE_NOT_EDITABLE", "Only draft quotes can be edited", ErrQuoteNotEditable)
	}

	domain, err := DomainByCode(quote.Domain)
	if err != nil {
		return nil, NewBusinessError("UNKNOWN_DOMAIN", "Unknown quoting domain", err)
	}

	lineIdx := -1
	for i := range quote.LineItems {
		if quote.LineItems[i].ID == req.LineID {
			lineIdx = i
			break
		}
	}
	if lineIdx == -1 {
		return nil, NewBusinessError("QUOTE_LINE_NOT_FOUND", "Quote line item not found", ErrQuoteLineNotFound)
	}

	repriced, err := s.priceLine(ctx, domain, req.Line)
	if err != nil {
		return nil, NewBusinessError("QUOTE_PRICING_FAILED", "Quote pricing failed", err)
	}
	repriced.ID = quote.LineItems[lineIdx].ID
	repriced.QuoteID = quote.ID
	repriced.Position = quote.LineItems[lineIdx].Position
	repriced.CreatedAt = quote.LineItems[lineIdx].CreatedAt
	quote.LineItems[lineIdx] = repriced

	totals := ComputeTotals(lineTotals(quote.LineItems), quote.VATRate)
	quote.TotalNet = totals.TotalNet
	quote.TotalGross = totals.TotalGross

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.quoteRepo.ReplaceLine(txCtx, repriced); err != nil {
			return err
		}
		return s.quoteRepo.Update(txCtx, *quote)
	})
	if err != nil {
		return nil, NewBusinessError("QUOTE_UPDATE_FAILED", "Quote update failed", err)
	}

	return &dto.UpdateQuoteLineResponse{
		Message: "Quote line updated successfully",
		Quote:   ToQuoteDTO(*quote),
	}, nil
}

// UpdateQuoteStatus changes a quote's status. Any of the four states may be
// set from any other; the lifecycle carries no transition guards.
func (s *QuoteFlowImpl) UpdateQuoteStatus(ctx context.Context, req *dto.UpdateQuoteStatusRequest, metadata *ClientMetadata) (*dto.UpdateQuoteStatusResponse, error) {
	status := models.QuoteStatus(req.Status)
	if !status.Valid() {
		return nil, NewBusinessError("INVALID_QUOTE_STATUS", "Invalid quote status", ErrInvalidQuoteStatus)
	}

	quote, err := s.getQuote(ctx, req.QuoteUUID)
	if err != nil {
		return nil, err
	}

	if err := s.quoteRepo.UpdateStatus(ctx, quote.ID, status); err != nil {
		return nil, NewBusinessError("QUOTE_UPDATE_FAILED", "Quote status update failed", err)
	}

	return &dto.UpdateQuoteStatusResponse{
		Message: "Quote status updated successfully",
		Status:  string(status),
	}, nil
}

// GetQuote fetches one quote by UUID
func (s *QuoteFlowImpl) GetQuote(ctx context.Context, req *dto.GetQuoteRequest) (*dto.QuoteDTO, error) {
	quote, err := s.getQuote(ctx, req.UUID)
	if err != nil {
		return nil, err
	}

	out := ToQuoteDTO(*quote)
	return &out, nil
}

// ListQuotes lists quotes with filtering and pagination
func (s *QuoteFlowImpl) ListQuotes(ctx context.Context, req *dto.ListQuotesRequest) (*dto.ListQuotesResponse, error) {
	if req.Page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "Invalid page", ErrInvalidPage)
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		return nil, NewBusinessError("INVALID_PAGE_SIZE", "Invalid page size", ErrInvalidPageSize)
	}
	if req.CreatedAfter != nil && req.CreatedBefore != nil && req.CreatedAfter.After(*req.CreatedBefore) {
		return nil, NewBusinessError("INVALID_DATE_RANGE", "Invalid date range", ErrStartDateAfterEndDate)
	}

	filter := models.QuoteFilter{
		CreatedAfter:  req.CreatedAfter,
		CreatedBefore: req.CreatedBefore,
	}
	if req.Domain != nil {
		if _, err := DomainByCode(*req.Domain); err != nil {
			return nil, NewBusinessError("UNKNOWN_DOMAIN", "Unknown quoting domain", err)
		}
		filter.Domain = req.Domain
	}
	if req.Status != nil {
		status := models.QuoteStatus(*req.Status)
		if !status.Valid() {
			return nil, NewBusinessError("INVALID_QUOTE_STATUS", "Invalid quote status", ErrInvalidQuoteStatus)
		}
		filter.Status = &status
	}
	if req.ClientUUID != nil {
		client, err := s.clientRepo.ByUUID(ctx, *req.ClientUUID)
		if err != nil {
			return nil, NewBusinessError("CLIENT_LOOKUP_FAILED", "Failed to lookup client", err)
		}
		if client == nil {
			return nil, NewBusinessError("CLIENT_NOT_FOUND", "Client not found", ErrClientNotFound)
		}
		filter.ClientID = &client.ID
	}

	offset := (req.Page - 1) * req.PageSize
	quotes, err := s.quoteRepo.ByFilter(ctx, filter, "created_at DESC", req.PageSize, offset)
	if err != nil {
		return nil, NewBusinessError("QUOTE_LIST_FAILED", "Failed to list quotes", err)
	}

	total, err := s.quoteRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("QUOTE_LIST_FAILED", "Failed to count quotes", err)
	}

	out := make([]dto.QuoteDTO, 0, len(quotes))
	for _, quote := range quotes {
		out = append(out, ToQuoteDTO(*quote))
	}

	return &dto.ListQuotesResponse{
		Message: "Quotes listed successfully",
		Quotes:  out,
		Total:   total,
		Page:    req.Page,
	}, nil
}

// SubmitClientQuote handles the anonymous submission path: captcha-verified,
// priced exactly like staff quotes, but numbered with the CLIENT scheme
// derived by scanning existing numbers since no trusted allocator backs
// anonymous traffic.
func (s *QuoteFlowImpl) SubmitClientQuote(ctx context.Context, req *dto.SubmitClientQuoteRequest, metadata *ClientMetadata) (*dto.SubmitClientQuoteResponse, error) {
	if !s.captcha.VerifyRotate(ctx, req.ChallengeID, req.Angle) {
		return nil, NewBusinessError("CAPTCHA_REQUIRED", "Captcha verification failed", ErrCaptchaRequired)
	}

	domain, err := DomainByCode(req.Domain)
	if err != nil {
		return nil, NewBusinessError("UNKNOWN_DOMAIN", "Unknown quoting domain", err)
	}

	lines, err := s.priceLines(ctx, domain, req.Lines)
	if err != nil {
		return nil, NewBusinessError("QUOTE_PRICING_FAILED", "Quote pricing failed", err)
	}

	client, err := s.findOrCreateClient(ctx, req)
	if err != nil {
		return nil, NewBusinessError("CLIENT_LOOKUP_FAILED", "Failed to resolve client", err)
	}

	totals := ComputeTotals(lineTotals(lines), domain.DefaultVATRate)

	var quote *models.Quote

	for attempt := 0; attempt < utils.NumberScanRetries; attempt++ {
		err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
			now := utils.UTCNow()
			period := utils.PeriodOf(now)

			existing, err := s.quoteRepo.ListNumbersForPeriod(txCtx, domain.Code, period)
			if err != nil {
				return err
			}
			seq := NextClientFromScan(period, existing)
			number := domain.FormatClientNumber(seq, now.Unix(), period)

			quote = &models.Quote{
				UUID:            uuid.New(),
				Domain:          domain.Code,
				ClientID:        client.ID,
				QuoteNumber:     number,
				LineItems:       lines,
				TotalNet:        totals.TotalNet,
				VATRate:         totals.VATRate,
				TotalGross:      totals.TotalGross,
				Status:          models.QuoteStatusDraft,
				ClientSubmitted: utils.ToPtr(true),
			}

			return s.quoteRepo.Save(txCtx, quote)
		})
		if err == nil {
			middleware.RecordNumberAllocation(domain.Code, "ok")
			break
		}
		middleware.RecordNumberAllocation(domain.Code, "retry")
	}
	if err != nil {
		middleware.RecordNumberAllocation(domain.Code, "exhausted")
		return nil, NewBusinessError("QUOTE_NUMBER_EXHAUSTED", "Quote number allocation failed",
			fmt.Errorf("%w: %w", ErrNumberAllocationExhausted, err))
	}

	return &dto.SubmitClientQuoteResponse{
		Message:     "Quote submitted successfully",
		QuoteNumber: quote.QuoteNumber,
		UUID:        quote.UUID.String(),
	}, nil
}

// getQuote resolves a quote by UUID or returns a typed lookup failure
func (s *QuoteFlowImpl) getQuote(ctx context.Context, quoteUUID string) (*models.Quote, error) {
	quote, err := s.quoteRepo.ByUUID(ctx, quoteUUID)
	if err != nil {
		return nil, NewBusinessError("QUOTE_LOOKUP_FAILED", "Failed to lookup quote", err)
	}
	if quote == nil {
		return nil, NewBusinessError("QUOTE_NOT_FOUND", "Quote not found", ErrQuoteNotFound)
	}
	return quote, nil
}

// priceLines prices every requested line, assigning positions in request order
func (s *QuoteFlowImpl) priceLines(ctx context.Context, domain DomainDescriptor, reqs []dto.QuoteLineRequest) ([]models.QuoteLineItem, error) {
	if len(reqs) == 0 {
		return nil, ErrQuoteHasNoLines
	}

	lines := make([]models.QuoteLineItem, 0, len(reqs))
	for i, lineReq := range reqs {
		line, err := s.priceLine(ctx, domain, lineReq)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		line.Position = i
		lines = append(lines, line)
	}
	return lines, nil
}

// priceLine loads the equipment with its tier table and prices one line
func (s *QuoteFlowImpl) priceLine(ctx context.Context, domain DomainDescriptor, req dto.QuoteLineRequest) (models.QuoteLineItem, error) {
	var empty models.QuoteLineItem

	if req.Quantity < 1 {
		return empty, ErrInvalidQuantity
	}
	if req.RentalDays < 1 {
		return empty, ErrInvalidRentalDays
	}

	equipment, err := s.equipmentRepo.ByID(ctx, req.EquipmentID)
	if err != nil {
		return empty, err
	}
	if equipment == nil || equipment.Domain != domain.Code {
		return empty, ErrEquipmentNotFound
	}
	if !utils.IsTrue(equipment.IsActive) {
		return empty, ErrEquipmentInactive
	}
	if req.Quantity > equipment.AvailableQuantity {
		return empty, ErrEquipmentUnavailable
	}

	if err := s.hydrateRiders(ctx, req.Riders); err != nil {
		return empty, err
	}

	pricing, err := AggregateLine(domain, equipment.PricingTiers, req.Riders, req.Quantity, req.RentalDays)
	if err != nil {
		return empty, err
	}

	return models.QuoteLineItem{
		EquipmentID:     equipment.ID,
		Equipment:       equipment,
		Quantity:        req.Quantity,
		RentalDays:      req.RentalDays,
		PricePerDay:     pricing.PricePerDay,
		DiscountPercent: pricing.DiscountPercent,
		Riders:          req.Riders,
		Breakdown:       pricing.Breakdown,
		TotalPrice:      RoundCurrency(pricing.Total),
	}, nil
}

// hydrateRiders resolves addon selections against the catalog. Names and
// daily prices always come from the stored catalog entries, never from the
// request body.
func (s *QuoteFlowImpl) hydrateRiders(ctx context.Context, riders models.RiderSpecList) error {
	for i := range riders {
		spec := &riders[i]
		if len(spec.Addons) == 0 {
			continue
		}

		ids := make([]uint, 0, len(spec.Addons))
		for _, a := range spec.Addons {
			ids = append(ids, a.AddonID)
		}

		switch spec.Kind {
		case models.RiderAdditionalEquipment:
			entries, err := s.catalogRepo.AdditionalEquipmentByIDs(ctx, ids)
			if err != nil {
				return err
			}
			if len(entries) != len(ids) {
				return ErrInvalidRiderParameters
			}
			byID := make(map[uint]*models.AdditionalEquipment, len(entries))
			for _, e := range entries {
				byID[e.ID] = e
			}
			for j := range spec.Addons {
				entry := byID[spec.Addons[j].AddonID]
				if entry == nil {
					return ErrInvalidRiderParameters
				}
				spec.Addons[j].Name = entry.Name
				spec.Addons[j].PricePerDay = entry.PricePerDay
			}
		case models.RiderAccessories:
			entries, err := s.catalogRepo.AccessoriesByIDs(ctx, ids)
			if err != nil {
				return err
			}
			if len(entries) != len(ids) {
				return ErrInvalidRiderParameters
			}
			byID := make(map[uint]*models.Accessory, len(entries))
			for _, e := range entries {
				byID[e.ID] = e
			}
			for j := range spec.Addons {
				entry := byID[spec.Addons[j].AddonID]
				if entry == nil {
					return ErrInvalidRiderParameters
				}
				spec.Addons[j].Name = entry.Name
				spec.Addons[j].PricePerDay = entry.PricePerDay
			}
		}
	}
	return nil
}

// findOrCreateClient resolves the submitting client by email, creating a
// record on first contact
func (s *QuoteFlowImpl) findOrCreateClient(ctx context.Context, req *dto.SubmitClientQuoteRequest) (*models.Client, error) {
	filter := models.ClientFilter{Email: &req.ClientEmail}
	clients, err := s.clientRepo.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(clients) > 0 {
		return clients[0], nil
	}

	client := &models.Client{
		UUID:  uuid.New(),
		Name:  req.ClientName,
		Email: &req.ClientEmail,
		Phone: req.ClientPhone,
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// lineTotals projects the line totals for totals recomputation
func lineTotals(lines []models.QuoteLineItem) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.TotalPrice)
	}
	return out
}
