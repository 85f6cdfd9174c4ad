package cart

import (
	"github.com/google/uuid"
	"github.com/mvalverde/cartfront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// AddItemInput is the validated add-to-cart payload.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// LineDTO is one cart line joined with live product data.
type LineDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartDTO is the full cart view.
type CartDTO struct {
	Items     []LineDTO       `json:"items"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

func lineFromModel(item *models.CartItem, product *models.Product) LineDTO {
	line := LineDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if product != nil {
		line.ProductName = product.Name
		line.UnitPrice = product.Price
		line.LineTotal = product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return line
}
