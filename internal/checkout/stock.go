package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mvalverde/cartfront-backend/pkg/db/models"
	pkgerrors "github.com/mvalverde/cartfront-backend/pkg/errors"
	"gorm.io/gorm"
)

// errStockRace marks a guarded decrement that lost to a concurrent writer while
// the product still appears purchasable. The whole attempt is retried.
var errStockRace = errors.New("lost stock race")

// decrementStock applies the guarded update
//
//	UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?
//
// Zero rows affected means the guard failed; a re-read distinguishes a genuine
// shortage (or a vanished product) from a lost race.
func decrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) error {
	result := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var product models.Product
	err := tx.WithContext(ctx).First(&product, "id = ?", productID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "product no longer available").
			WithDetails(map[string]any{"product_id": productID})
	case err != nil:
		return err
	case product.Stock < quantity:
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock available").
			WithDetails(map[string]any{
				"product_id": productID,
				"requested":  quantity,
				"available":  product.Stock,
			})
	default:
		return errStockRace
	}
}
