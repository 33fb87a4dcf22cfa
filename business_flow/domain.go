package businessflow

import (
	"fmt"
	"regexp"

	"github.com/rentalworks/quoting/models"
	"github.com/shopspring/decimal"
)

// DomainDescriptor parameterizes the generic quoting engine for one equipment
// domain: document-number shape, VAT default and the rider set the domain
// supports. One engine instance serves all domains; the descriptor keeps the
// per-domain independence of the numbering sequences and rider menus.
type DomainDescriptor struct {
	Code     string
	Prefix   string
	SeqWidth int
	// Joined glues the prefix to the sequence ("T01/08.2025") instead of
	// separating with a slash ("EL/001/08.2025").
	Joined bool

	DefaultVATRate decimal.Decimal
	AllowedRiders  []models.RiderKind
}

// Domain codes
const (
	DomainGeneral    = "general"
	DomainElectrical = "electrical"
	DomainTransport  = "transport"
	DomainPublic     = "public"
)

var allRiderKinds = []models.RiderKind{
	models.RiderFuel,
	models.RiderMaintenance,
	models.RiderInstallation,
	models.RiderDisassembly,
	models.RiderTravelService,
	models.RiderServiceItems,
	models.RiderAdditionalEquipment,
	models.RiderAccessories,
}

var domainRegistry = map[string]DomainDescriptor{
	DomainGeneral: {
		Code:           DomainGeneral,
		Prefix:         "",
		SeqWidth:       2,
		DefaultVATRate: decimal.NewFromInt(23),
		AllowedRiders:  allRiderKinds,
	},
	DomainElectrical: {
		Code:           DomainElectrical,
		Prefix:         "EL",
		SeqWidth:       3,
		DefaultVATRate: decimal.NewFromInt(23),
		AllowedRiders:  allRiderKinds,
	},
	DomainTransport: {
		Code:           DomainTransport,
		Prefix:         "T",
		SeqWidth:       2,
		Joined:         true,
		DefaultVATRate: decimal.NewFromInt(23),
		// Transport quotes are a degenerate case of the general line model:
		// fuel by distance plus the travel family and named service costs.
		AllowedRiders: []models.RiderKind{
			models.RiderFuel,
			models.RiderTravelService,
			models.RiderServiceItems,
		},
	},
	DomainPublic: {
		Code:           DomainPublic,
		Prefix:         "PUB",
		SeqWidth:       3,
		DefaultVATRate: decimal.NewFromInt(23),
		AllowedRiders:  allRiderKinds,
	},
}

// DomainByCode resolves a registered domain descriptor.
func DomainByCode(code string) (DomainDescriptor, error) {
	d, ok := domainRegistry[code]
	if !ok {
		return DomainDescriptor{}, ErrUnknownDomain
	}
	return d, nil
}

// Domains lists every registered domain descriptor.
func Domains() []DomainDescriptor {
	out := make([]DomainDescriptor, 0, len(domainRegistry))
	for _, code := range []string{DomainGeneral, DomainElectrical, DomainTransport, DomainPublic} {
		out = append(out, domainRegistry[code])
	}
	return out
}

// AllowsRider reports whether the domain's rider menu contains kind.
func (d DomainDescriptor) AllowsRider(kind models.RiderKind) bool {
	for _, k := range d.AllowedRiders {
		if k == kind {
			return true
		}
	}
	return false
}

// FormatNumber renders a document number for the given sequence value and
// period (MM.YYYY).
func (d DomainDescriptor) FormatNumber(seq int64, period string) string {
	switch {
	case d.Prefix == "":
		return fmt.Sprintf("%0*d/%s", d.SeqWidth, seq, period)
	case d.Joined:
		return fmt.Sprintf("%s%0*d/%s", d.Prefix, d.SeqWidth, seq, period)
	default:
		return fmt.Sprintf("%s/%0*d/%s", d.Prefix, d.SeqWidth, seq, period)
	}
}

// NumberPattern compiles the pattern matching this domain's numbers for one
// period, capturing the sequence component.
func (d DomainDescriptor) NumberPattern(period string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(period)
	switch {
	case d.Prefix == "":
		return regexp.MustCompile(fmt.Sprintf(`^(\d+)/%s$`, escaped))
	case d.Joined:
		return regexp.MustCompile(fmt.Sprintf(`^%s(\d+)/%s$`, regexp.QuoteMeta(d.Prefix), escaped))
	default:
		return regexp.MustCompile(fmt.Sprintf(`^%s/(\d+)/%s$`, regexp.QuoteMeta(d.Prefix), escaped))
	}
}

// FormatClientNumber renders the number for a client-submitted document.
// The unix timestamp fragment lowers the collision odds on the anonymous
// path, where no trusted sequence exists.
func (d DomainDescriptor) FormatClientNumber(seq int64, unixTS int64, period string) string {
	return fmt.Sprintf("CLIENT-%02d-%d/%s", seq, unixTS, period)
}

// ClientNumberPattern matches client-submitted numbers for one period,
// capturing the sequence component.
func ClientNumberPattern(period string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^CLIENT-(\d+)-\d+/%s$`, regexp.QuoteMeta(period)))
}
