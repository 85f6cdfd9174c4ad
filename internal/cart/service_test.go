package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mvalverde/cartfront-backend/pkg/db/models"
	pkgerrors "github.com/mvalverde/cartfront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Product{}, &models.Tag{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func mustCreateUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		FirstName:    "Cart",
		LastName:     "Tester",
		Phone:        uuid.NewString(),
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, name string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: "test",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		Category:    "misc",
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestAddItemCreatesLine(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateUser(t, conn)
	product := mustCreateProduct(t, conn, "Gizmo", "10.50", 4)

	line, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if line.ProductName != "Gizmo" || line.Quantity != 2 {
		t.Fatalf("unexpected line: %+v", line)
	}
	if !line.LineTotal.Equal(decimal.RequireFromString("21.00")) {
		t.Fatalf("line total mismatch: %s", line.LineTotal)
	}

	var stock int
	if err := conn.Model(&models.Product{}).Where("id = ?", product.ID).Pluck("stock", &stock).Error; err != nil {
		t.Fatalf("read stock: %v", err)
	}
	if stock != 4 {
		t.Fatalf("add-to-cart must not touch stock, got %d", stock)
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateUser(t, conn)
	product := mustCreateProduct(t, conn, "Stacker", "1.00", 5)

	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	line, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if line.Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", line.Quantity)
	}

	var count int64
	if err := conn.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single merged line, got %d", count)
	}
}

func TestAddItemFailures(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateUser(t, conn)
	product := mustCreateProduct(t, conn, "Scarce", "2.00", 3)

	_, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: product.ID, Quantity: 0})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.AddItem(ctx, user.ID, AddItemInput{ProductID: uuid.New(), Quantity: 1})
	expectCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.AddItem(ctx, user.ID, AddItemInput{ProductID: product.ID, Quantity: 4})
	expectCode(t, err, pkgerrors.CodeInsufficientStock)

	// Merging beyond stock is also refused.
	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add within stock: %v", err)
	}
	_, err = svc.AddItem(ctx, user.ID, AddItemInput{ProductID: product.ID, Quantity: 2})
	expectCode(t, err, pkgerrors.CodeInsufficientStock)
}

func TestRemoveItem(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateUser(t, conn)
	product := mustCreateProduct(t, conn, "Removable", "3.00", 2)

	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := svc.RemoveItem(ctx, user.ID, product.ID); err != nil {
		t.Fatalf("remove item: %v", err)
	}

	err := svc.RemoveItem(ctx, user.ID, product.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetCartJoinsLiveProductData(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateUser(t, conn)
	cheap := mustCreateProduct(t, conn, "Cheap", "1.25", 10)
	dear := mustCreateProduct(t, conn, "Dear", "100.00", 10)

	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: cheap.ID, Quantity: 4}); err != nil {
		t.Fatalf("add cheap: %v", err)
	}
	if _, err := svc.AddItem(ctx, user.ID, AddItemInput{ProductID: dear.ID, Quantity: 1}); err != nil {
		t.Fatalf("add dear: %v", err)
	}

	// Price changes between add and read must be reflected live.
	if err := conn.Model(&models.Product{}).Where("id = ?", cheap.ID).
		UpdateColumn("price", decimal.RequireFromString("2.00")).Error; err != nil {
		t.Fatalf("reprice: %v", err)
	}

	cart, err := svc.GetCart(ctx, user.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
	if !cart.TotalCost.Equal(decimal.RequireFromString("108.00")) {
		t.Fatalf("total mismatch: %s", cart.TotalCost)
	}
}

func TestGetCartEmpty(t *testing.T) {
	svc, conn := newTestService(t)
	user := mustCreateUser(t, conn)

	cart, err := svc.GetCart(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
	if !cart.TotalCost.Equal(decimal.Zero) {
		t.Fatalf("expected zero total, got %s", cart.TotalCost)
	}
}
