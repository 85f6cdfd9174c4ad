package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mvalverde/cartfront-backend/pkg/config"
	"github.com/mvalverde/cartfront-backend/pkg/db/models"
	pkgerrors "github.com/mvalverde/cartfront-backend/pkg/errors"
	"github.com/mvalverde/cartfront-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Result is the checkout response payload.
type Result struct {
	TotalCost decimal.Decimal `json:"total_cost"`
}

// Service executes the atomic cart checkout.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID) (*Result, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	runner      txRunner
	maxAttempts int
	metrics     *metrics.CheckoutMetrics
}

// NewService constructs the checkout service. Metrics may be nil.
func NewService(runner txRunner, cfg config.CheckoutConfig, m *metrics.CheckoutMetrics) (Service, error) {
	if runner == nil {
		return nil, fmt.Errorf("db client required")
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &service{
		runner:      runner,
		maxAttempts: attempts,
		metrics:     m,
	}, nil
}

// Execute converts the user's cart into orders inside a single transaction per
// attempt. Losing the guarded stock update aborts the transaction and retries
// from scratch; after maxAttempts the caller gets a retryable conflict.
func (s *service) Execute(ctx context.Context, userID uuid.UUID) (*Result, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result, err := s.attempt(ctx, userID)
		if err == nil {
			s.metrics.IncOutcome("success")
			return result, nil
		}
		if errors.Is(err, errStockRace) {
			s.metrics.IncRetry()
			continue
		}
		if typed := pkgerrors.As(err); typed != nil {
			s.metrics.IncOutcome(outcomeForCode(typed.Code()))
			return nil, err
		}
		s.metrics.IncOutcome("storage_error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout transaction")
	}
	s.metrics.IncOutcome("conflict")
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout conflicted with concurrent purchases, please retry")
}

func (s *service) attempt(ctx context.Context, userID uuid.UUID) (*Result, error) {
	total := decimal.Zero

	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("product_id ASC").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		orders := make([]models.Order, 0, len(items))
		for _, item := range items {
			var product models.Product
			err := tx.WithContext(ctx).First(&product, "id = ?", item.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product no longer available").
					WithDetails(map[string]any{"product_id": item.ProductID})
			}
			if err != nil {
				return err
			}
			if product.Stock < item.Quantity {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock available").
					WithDetails(map[string]any{
						"product_id": product.ID,
						"requested":  item.Quantity,
						"available":  product.Stock,
					})
			}

			if err := decrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(lineTotal)
			orders = append(orders, models.Order{
				UserID:     userID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				TotalPrice: lineTotal,
			})
		}

		if err := tx.WithContext(ctx).Create(&orders).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).
			Where("user_id = ?", userID).
			Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &Result{TotalCost: total}, nil
}

func outcomeForCode(code pkgerrors.Code) string {
	switch code {
	case pkgerrors.CodeEmptyCart:
		return "empty_cart"
	case pkgerrors.CodeInsufficientStock:
		return "insufficient_stock"
	case pkgerrors.CodeNotFound:
		return "product_gone"
	case pkgerrors.CodeDependency:
		return "storage_error"
	default:
		return string(code)
	}
}
