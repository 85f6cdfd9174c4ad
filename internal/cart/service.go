package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mvalverde/cartfront-backend/pkg/db/models"
	pkgerrors "github.com/mvalverde/cartfront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes the cart operations. Adding to the cart records intent only;
// stock is validated here but reserved exclusively by checkout.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*LineDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a cart service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{repo: repo}, nil
}

// AddItem validates stock and creates or merges the user's line for the product.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*LineDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.repo.FindProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	existing, err := s.repo.FindLine(ctx, userID, input.ProductID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	requested := input.Quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock available").
			WithDetails(map[string]any{
				"product_id": product.ID,
				"requested":  requested,
				"available":  product.Stock,
			})
	}

	if existing != nil {
		if err := s.repo.UpdateLineQuantity(ctx, existing.ID, requested); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
		existing.Quantity = requested
		line := lineFromModel(existing, product)
		return &line, nil
	}

	item, err := s.repo.CreateLine(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
	}
	line := lineFromModel(item, product)
	return &line, nil
}

// RemoveItem deletes the user's line for the product.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.repo.DeleteLine(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return nil
}

// GetCart returns the user's lines joined with live product data.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}

	cart := &CartDTO{
		Items:     make([]LineDTO, 0, len(items)),
		TotalCost: decimal.Zero,
	}
	for i := range items {
		line := lineFromModel(&items[i], items[i].Product)
		cart.Items = append(cart.Items, line)
		cart.TotalCost = cart.TotalCost.Add(line.LineTotal)
	}
	return cart, nil
}
