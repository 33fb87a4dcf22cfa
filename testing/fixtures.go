// Package testing provides test utilities and database setup for testing the quoting system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestEquipment creates equipment in the given domain with a two-band
// tier table: days 1-2 at 100.00 and days 3+ at 85.71 (14.29% off)
func (tf *TestFixtures) CreateTestEquipment(domain string) (*models.Equipment, error) {
	equipment := &models.Equipment{
		UUID:              uuid.New(),
		Domain:            domain,
		Name:              fmt.Sprintf("Test Excavator %d", rand.Intn(100000)),
		Quantity:          10,
		AvailableQuantity: 10,
		IsActive:          utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(equipment).Error; err != nil {
		return nil, fmt.Errorf("failed to create test equipment: %w", err)
	}

	tiers := []*models.PricingTier{
		{
			EquipmentID:     equipment.ID,
			PeriodStart:     1,
			PeriodEnd:       utils.ToPtr(2),
			PricePerDay:     decimal.RequireFromString("100.00"),
			DiscountPercent: decimal.Zero,
		},
		{
			EquipmentID:     equipment.ID,
			PeriodStart:     3,
			PricePerDay:     decimal.RequireFromString("85.71"),
			DiscountPercent: decimal.RequireFromString("14.29"),
		},
	}
	for _, tier := range tiers {
		if err := tf.DB.DB.Create(tier).Error; err != nil {
			return nil, fmt.Errorf("failed to create test pricing tier: %w", err)
		}
	}
	equipment.PricingTiers = []models.PricingTier{*tiers[0], *tiers[1]}

	return equipment, nil
}

// CreateTestClient creates a rental client
func (tf *TestFixtures) CreateTestClient() (*models.Client, error) {
	email := fmt.Sprintf("client.%d@example.com", rand.Intn(1000000))
	client := &models.Client{
		UUID:  uuid.New(),
		Name:  "Test Client Ltd",
		Email: &email,
	}

	if err := tf.DB.DB.Create(client).Error; err != nil {
		return nil, fmt.Errorf("failed to create test client: %w", err)
	}

	return client, nil
}

// CreateTestStaff creates an active staff account with the password "TestPass123!"
func (tf *TestFixtures) CreateTestStaff() (*models.Staff, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := &models.Staff{
		UUID:         uuid.New(),
		FullName:     "Jane Operator",
		Email:        fmt.Sprintf("staff.%d@example.com", rand.Intn(1000000)),
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(staff).Error; err != nil {
		return nil, fmt.Errorf("failed to create test staff: %w", err)
	}

	return staff, nil
}

// CreateTestAddons creates one additional-equipment entry and one accessory
// for the given equipment
func (tf *TestFixtures) CreateTestAddons(equipmentID uint) (*models.AdditionalEquipment, *models.Accessory, error) {
	addon := &models.AdditionalEquipment{
		EquipmentID: equipmentID,
		Name:        "Hydraulic Hammer",
		PricePerDay: decimal.RequireFromString("25.00"),
	}
	if err := tf.DB.DB.Create(addon).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create test additional equipment: %w", err)
	}

	accessory := &models.Accessory{
		EquipmentID: equipmentID,
		Name:        "Narrow Bucket",
		PricePerDay: decimal.RequireFromString("10.00"),
	}
	if err := tf.DB.DB.Create(accessory).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create test accessory: %w", err)
	}

	return addon, accessory, nil
}

// CreateTestQuote creates a persisted quote with one line for the given
// equipment and client
func (tf *TestFixtures) CreateTestQuote(domain string, client *models.Client, equipment *models.Equipment, number string) (*models.Quote, error) {
	quote := &models.Quote{
		UUID:        uuid.New(),
		Domain:      domain,
		ClientID:    client.ID,
		QuoteNumber: number,
		TotalNet:    decimal.RequireFromString("857.10"),
		VATRate:     decimal.NewFromInt(utils.DefaultVATRate),
		TotalGross:  decimal.RequireFromString("1054.23"),
		Status:      models.QuoteStatusDraft,
		LineItems: []models.QuoteLineItem{
			{
				EquipmentID:     equipment.ID,
				Quantity:        2,
				RentalDays:      5,
				PricePerDay:     decimal.RequireFromString("85.71"),
				DiscountPercent: decimal.RequireFromString("14.29"),
				TotalPrice:      decimal.RequireFromString("857.10"),
				Position:        0,
			},
		},
	}

	if err := tf.DB.DB.Create(quote).Error; err != nil {
		return nil, fmt.Errorf("failed to create test quote: %w", err)
	}

	return quote, nil
}
