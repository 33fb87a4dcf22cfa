// Package businessflow contains the core business logic and use cases for quote export
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/rentalworks/quoting/app/dto"
	"github.com/rentalworks/quoting/models"
	"github.com/rentalworks/quoting/repository"
	"github.com/xuri/excelize/v2"
)

// QuoteExportFlow renders quote cost breakdowns as Excel workbooks
type QuoteExportFlow interface {
	ExportQuoteBreakdown(ctx context.Context, req *dto.ExportQuoteRequest) (filename string, content []byte, err error)
}

// QuoteExportFlowImpl implements the quote export flow
type QuoteExportFlowImpl struct {
	quoteRepo repository.QuoteRepository
}

// NewQuoteExportFlow creates a new quote export flow instance
func NewQuoteExportFlow(quoteRepo repository.QuoteRepository) QuoteExportFlow {
	return &QuoteExportFlowImpl{quoteRepo: quoteRepo}
}

// ExportQuoteBreakdown writes one workbook for a quote: a line per equipment
// entry with the rate term and one column per rider kind, followed by the
// totals block. The full cost composition is visible, not just line totals.
func (s *QuoteExportFlowImpl) ExportQuoteBreakdown(ctx context.Context, req *dto.ExportQuoteRequest) (string, []byte, error) {
	quote, err := s.quoteRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return "", nil, NewBusinessError("QUOTE_LOOKUP_FAILED", "Failed to lookup quote", err)
	}
	if quote == nil {
		return "", nil, NewBusinessError("QUOTE_NOT_FOUND", "Quote not found", ErrQuoteNotFound)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := sanitizeSheetName(quote.QuoteNumber)
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"position", "equipment", "quantity", "rental_days", "price_per_day", "discount_percent", "rate_total"}
	for _, kind := range allRiderKinds {
		header = append(header, string(kind))
	}
	header = append(header, "line_total")
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, line := range quote.LineItems {
		name := ""
		if line.Equipment != nil {
			name = line.Equipment.Name
		}

		rateTotal := line.PricePerDay.
			Mul(decimalFromInt(line.Quantity)).
			Mul(decimalFromInt(line.RentalDays))

		record := []any{
			line.Position + 1,
			name,
			line.Quantity,
			line.RentalDays,
			line.PricePerDay.StringFixed(2),
			line.DiscountPercent.StringFixed(2),
			RoundCurrency(rateTotal).StringFixed(2),
		}
		for _, kind := range allRiderKinds {
			record = append(record, riderAmount(line.Breakdown, kind))
		}
		record = append(record, line.TotalPrice.StringFixed(2))

		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	totalsRow := len(quote.LineItems) + 3
	for i, pair := range [][2]string{
		{"total_net", quote.TotalNet.StringFixed(2)},
		{"vat_rate", quote.VATRate.StringFixed(2)},
		{"total_gross", quote.TotalGross.StringFixed(2)},
	} {
		cellRef, _ := excelize.CoordinatesToCellName(1, totalsRow+i)
		record := []any{pair[0], pair[1]}
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("quote_%s.xlsx", strings.ReplaceAll(quote.QuoteNumber, "/", "_"))
	return filename, buf.Bytes(), nil
}

func riderAmount(breakdown models.RiderBreakdown, kind models.RiderKind) string {
	for _, charge := range breakdown {
		if charge.Kind == kind {
			return RoundCurrency(charge.Amount).StringFixed(2)
		}
	}
	return ""
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := strings.TrimSpace(replacer.Replace(name))
	if len(safe) > 31 {
		safe = safe[:31]
	}
	if safe == "" {
		safe = "Sheet"
	}
	return safe
}
