package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/types"
)

// ItemDTO is one quoted line in a cart payload.
type ItemDTO struct {
	ID           uuid.UUID         `json:"id"`
	ProductID    uuid.UUID         `json:"product_id"`
	Quantity     int               `json:"quantity"`
	UnitPrice    decimal.Decimal   `json:"unit_price"`
	LineSubtotal decimal.Decimal   `json:"line_subtotal"`
	LineTotal    decimal.Decimal   `json:"line_total"`
	PriceFields  types.PriceFields `json:"price_fields,omitempty"`
}

// CartDTO is the full cart payload with the last quoted totals.
type CartDTO struct {
	ID            uuid.UUID         `json:"id"`
	Status        string            `json:"status"`
	Currency      string            `json:"currency"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	ModifierTotal decimal.Decimal   `json:"modifier_total"`
	Total         decimal.Decimal   `json:"total"`
	PriceFields   types.PriceFields `json:"price_fields,omitempty"`
	AppliedCodes  []string          `json:"applied_codes,omitempty"`
	Items         []ItemDTO         `json:"items"`
	ExpiresAt     *time.Time        `json:"expires_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewCartDTO maps a preloaded cart record into its payload shape.
func NewCartDTO(record *models.CartRecord) *CartDTO {
	if record == nil {
		return nil
	}
	dto := &CartDTO{
		ID:            record.ID,
		Status:        record.Status.String(),
		Currency:      record.Currency.String(),
		Subtotal:      record.Subtotal,
		ModifierTotal: record.ModifierTotal,
		Total:         record.Total,
		PriceFields:   record.PriceFields,
		AppliedCodes:  record.RedeemedCodes(),
		Items:         make([]ItemDTO, 0, len(record.Items)),
		ExpiresAt:     record.ExpiresAt,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
	for _, item := range record.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineSubtotal: item.LineSubtotal,
			LineTotal:    item.LineTotal,
			PriceFields:  item.PriceFields,
		})
	}
	return dto
}
