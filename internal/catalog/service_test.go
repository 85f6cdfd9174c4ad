package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mvalverde/cartfront-backend/pkg/db"
	"github.com/mvalverde/cartfront-backend/pkg/db/models"
	pkgerrors "github.com/mvalverde/cartfront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Tag{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
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

func sampleInput(name string, tags ...string) CreateProductInput {
	return CreateProductInput{
		Name:        name,
		Description: "a fine product",
		Price:       decimal.RequireFromString("19.99"),
		Stock:       5,
		Category:    "gadgets",
		Tags:        tags,
	}
}

func TestCreateProductWithTags(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateProduct(ctx, sampleInput("Widget", "Sale", " sale ", "new"))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if len(dto.Tags) != 2 {
		t.Fatalf("expected deduplicated tags, got %v", dto.Tags)
	}

	var tagCount int64
	if err := conn.Model(&models.Tag{}).Count(&tagCount).Error; err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if tagCount != 2 {
		t.Fatalf("expected 2 tag rows, got %d", tagCount)
	}
}

func TestCreateProductReusesExistingTags(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, sampleInput("First", "shared")); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, sampleInput("Second", "shared", "extra")); err != nil {
		t.Fatalf("create second: %v", err)
	}

	var tagCount int64
	if err := conn.Model(&models.Tag{}).Count(&tagCount).Error; err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if tagCount != 2 {
		t.Fatalf("expected shared tag to be reused, got %d rows", tagCount)
	}
}

func TestCreateProductDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, sampleInput("Unique")); err != nil {
		t.Fatalf("create product: %v", err)
	}
	_, err := svc.CreateProduct(ctx, sampleInput("Unique"))
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := sampleInput("")
	_, err := svc.CreateProduct(ctx, input)
	expectCode(t, err, pkgerrors.CodeValidation)

	input = sampleInput("Negative Price")
	input.Price = decimal.RequireFromString("-1")
	_, err = svc.CreateProduct(ctx, input)
	expectCode(t, err, pkgerrors.CodeValidation)

	input = sampleInput("Negative Stock")
	input.Stock = -1
	_, err = svc.CreateProduct(ctx, input)
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestGetAndListProducts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, sampleInput("Fetchable", "blue"))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	got, err := svc.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Name != "Fetchable" || len(got.Tags) != 1 || got.Tags[0] != "blue" {
		t.Fatalf("unexpected detail: %+v", got)
	}
	if !got.Price.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("price mismatch: %s", got.Price)
	}

	list, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list))
	}

	_, err = svc.GetProduct(ctx, uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, sampleInput("Doomed"))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := svc.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	_, err = svc.GetProduct(ctx, created.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)

	err = svc.DeleteProduct(ctx, created.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)
}
