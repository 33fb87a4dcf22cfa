package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rentalworks/quoting/app/dto"
	"github.com/rentalworks/quoting/app/services"
	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repository stands-ins so flow behavior before any transaction can
// be exercised without a database.

type fakeQuoteRepo struct {
	quote     *models.Quote
	saveCalls int
}

func (r *fakeQuoteRepo) ByID(ctx context.Context, id uint) (*models.Quote, error) {
	return r.quote, nil
}
func (r *fakeQuoteRepo) ByFilter(ctx context.Context, filter models.QuoteFilter, orderBy string, limit, offset int) ([]*models.Quote, error) {
	return nil, nil
}
func (r *fakeQuoteRepo) Save(ctx context.Context, quote *models.Quote) error {
	r.saveCalls++
	return nil
}
func (r *fakeQuoteRepo) SaveBatch(ctx context.Context, quotes []*models.Quote) error { return nil }
func (r *fakeQuoteRepo) Count(ctx context.Context, filter models.QuoteFilter) (int64, error) {
	return 0, nil
}
func (r *fakeQuoteRepo) Exists(ctx context.Context, filter models.QuoteFilter) (bool, error) {
	return false, nil
}
func (r *fakeQuoteRepo) ByUUID(ctx context.Context, uuid string) (*models.Quote, error) {
	return r.quote, nil
}
func (r *fakeQuoteRepo) ByNumber(ctx context.Context, number string) (*models.Quote, error) {
	return nil, nil
}
func (r *fakeQuoteRepo) ListNumbersForPeriod(ctx context.Context, domain, period string) ([]string, error) {
	return nil, nil
}
func (r *fakeQuoteRepo) Update(ctx context.Context, quote models.Quote) error { return nil }
func (r *fakeQuoteRepo) UpdateStatus(ctx context.Context, id uint, status models.QuoteStatus) error {
	return nil
}
func (r *fakeQuoteRepo) ReplaceLine(ctx context.Context, line models.QuoteLineItem) error {
	return nil
}

type fakeEquipmentRepo struct {
	equipment *models.Equipment
}

func (r *fakeEquipmentRepo) ByID(ctx context.Context, id uint) (*models.Equipment, error) {
	return r.equipment, nil
}
func (r *fakeEquipmentRepo) ByFilter(ctx context.Context, filter models.EquipmentFilter, orderBy string, limit, offset int) ([]*models.Equipment, error) {
	return nil, nil
}
func (r *fakeEquipmentRepo) Save(ctx context.Context, equipment *models.Equipment) error { return nil }
func (r *fakeEquipmentRepo) SaveBatch(ctx context.Context, equipment []*models.Equipment) error {
	return nil
}
func (r *fakeEquipmentRepo) Count(ctx context.Context, filter models.EquipmentFilter) (int64, error) {
	return 0, nil
}
func (r *fakeEquipmentRepo) Exists(ctx context.Context, filter models.EquipmentFilter) (bool, error) {
	return false, nil
}
func (r *fakeEquipmentRepo) ByUUID(ctx context.Context, uuid string) (*models.Equipment, error) {
	return r.equipment, nil
}
func (r *fakeEquipmentRepo) ByDomain(ctx context.Context, domain string, limit, offset int) ([]*models.Equipment, error) {
	return nil, nil
}
func (r *fakeEquipmentRepo) Update(ctx context.Context, equipment models.Equipment) error {
	return nil
}

type fakeClientRepo struct {
	client *models.Client
}

func (r *fakeClientRepo) ByID(ctx context.Context, id uint) (*models.Client, error) {
	return r.client, nil
}
func (r *fakeClientRepo) ByFilter(ctx context.Context, filter models.ClientFilter, orderBy string, limit, offset int) ([]*models.Client, error) {
	return nil, nil
}
func (r *fakeClientRepo) Save(ctx context.Context, client *models.Client) error      { return nil }
func (r *fakeClientRepo) SaveBatch(ctx context.Context, clients []*models.Client) error { return nil }
func (r *fakeClientRepo) Count(ctx context.Context, filter models.ClientFilter) (int64, error) {
	return 0, nil
}
func (r *fakeClientRepo) Exists(ctx context.Context, filter models.ClientFilter) (bool, error) {
	return false, nil
}
func (r *fakeClientRepo) ByUUID(ctx context.Context, uuid string) (*models.Client, error) {
	return r.client, nil
}

type fakeCatalogRepo struct{}

func (r *fakeCatalogRepo) AdditionalEquipmentByIDs(ctx context.Context, ids []uint) ([]*models.AdditionalEquipment, error) {
	return nil, nil
}
func (r *fakeCatalogRepo) AccessoriesByIDs(ctx context.Context, ids []uint) ([]*models.Accessory, error) {
	return nil, nil
}
func (r *fakeCatalogRepo) AdditionalEquipmentForEquipment(ctx context.Context, equipmentID uint) ([]*models.AdditionalEquipment, error) {
	return nil, nil
}
func (r *fakeCatalogRepo) AccessoriesForEquipment(ctx context.Context, equipmentID uint) ([]*models.Accessory, error) {
	return nil, nil
}
func (r *fakeCatalogRepo) ServiceItemsForDomain(ctx context.Context, domain string) ([]*models.ServiceItem, error) {
	return nil, nil
}

type failingAllocator struct {
	err   error
	calls int
}

func (a *failingAllocator) Allocate(ctx context.Context, key SequenceKey) (int64, error) {
	a.calls++
	return 0, a.err
}

type fakeCaptcha struct{ verified bool }

func (c *fakeCaptcha) GenerateRotate(ctx context.Context) (*services.RotateChallenge, error) {
	return nil, nil
}
func (c *fakeCaptcha) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	return c.verified
}

func testEquipment() *models.Equipment {
	return &models.Equipment{
		ID:                1,
		UUID:              uuid.New(),
		Domain:            DomainGeneral,
		Name:              "Mini Excavator",
		Quantity:          10,
		AvailableQuantity: 10,
		IsActive:          utils.ToPtr(true),
		PricingTiers:      twoBandTiers(),
	}
}

// A failed allocation must surface before the persistence transaction is ever
// opened: no quote row is written and the flow returns the allocator's error
// instead of panicking on a transaction it never needed.
func TestCreateQuoteAllocationFailure(t *testing.T) {
	quoteRepo := &fakeQuoteRepo{}
	allocator := &failingAllocator{err: errors.New("counter unavailable")}

	flow := NewQuoteFlow(
		quoteRepo,
		&fakeEquipmentRepo{equipment: testEquipment()},
		&fakeClientRepo{client: &models.Client{ID: 7, UUID: uuid.New(), Name: "Test Client Ltd"}},
		&fakeCatalogRepo{},
		allocator,
		&fakeCaptcha{verified: true},
		nil,
	)

	req := &dto.CreateQuoteRequest{
		Domain:     DomainGeneral,
		ClientUUID: uuid.NewString(),
		Lines: []dto.QuoteLineRequest{
			{EquipmentID: 1, Quantity: 2, RentalDays: 5},
		},
	}

	_, err := flow.CreateQuote(context.Background(), req, NewClientMetadata("127.0.0.1", "test"))

	require.Error(t, err)
	assert.ErrorIs(t, err, allocator.err)
	assert.Equal(t, 1, allocator.calls)
	assert.Zero(t, quoteRepo.saveCalls, "no quote must be persisted when allocation fails")

	var businessErr *BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, "NUMBER_ALLOCATION_FAILED", businessErr.Code)
}

func TestUpdateQuoteLineRejectsNonDraft(t *testing.T) {
	for _, status := range []models.QuoteStatus{models.QuoteStatusSent, models.QuoteStatusAccepted, models.QuoteStatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			quoteRepo := &fakeQuoteRepo{
				quote: &models.Quote{
					ID:     3,
					UUID:   uuid.New(),
					Domain: DomainGeneral,
					Status: status,
				},
			}

			flow := NewQuoteFlow(
				quoteRepo,
				&fakeEquipmentRepo{equipment: testEquipment()},
				&fakeClientRepo{},
				&fakeCatalogRepo{},
				NewInMemorySequenceAllocator(),
				&fakeCaptcha{verified: true},
				nil,
			)

			req := &dto.UpdateQuoteLineRequest{
				QuoteUUID: quoteRepo.quote.UUID.String(),
				LineID:    1,
				Line:      dto.QuoteLineRequest{EquipmentID: 1, Quantity: 2, RentalDays: 5},
			}

			_, err := flow.UpdateQuoteLine(context.Background(), req, NewClientMetadata("127.0.0.1", "test"))

			require.Error(t, err)
			assert.True(t, IsQuoteNotEditable(err))
		})
	}
}
