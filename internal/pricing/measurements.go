package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
)

// StandardMeasurement resolves one physical dimension of a product in its
// standard unit (meters or grams). Variants without their own
// measurement inherit the parent's. The second return reports presence.
func StandardMeasurement(p *models.Product, kind enums.MeasurementKind) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	for i := range p.Measurements {
		if p.Measurements[i].Kind == kind {
			return p.Measurements[i].StandardValue(), true
		}
	}
	if p.IsVariant() && p.Parent != nil {
		return StandardMeasurement(p.Parent, kind)
	}
	return decimal.Zero, false
}
