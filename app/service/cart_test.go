package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"github.com/vibast-solutions/ms-go-storefront/app/types"
)

func newCartService() (*CartService, *memCartRepo) {
	carts := newMemCartRepo()
	products := newMemProductRepo(&entity.Product{
		ID:              1,
		Name:            "Classic Tee",
		Price:           decimal.RequireFromString("12.50"),
		AvailableSizes:  []string{"Medium", "Large"},
		AvailableColors: []string{"Black", "White"},
		Style:           "Regular",
	})

	svc := NewCartService(carts, products)
	ids := 0
	svc.newID = func() string {
		ids++
		return "item-" + string(rune('0'+ids))
	}
	svc.now = func() time.Time { return orderCreatedAt }
	return svc, carts
}

func addItem(quantity int32, size, color, text string) *types.AddCartItemRequest {
	return &types.AddCartItemRequest{
		UserID:     testUserID,
		ProductID:  1,
		Size:       size,
		Color:      color,
		Style:      "Regular",
		CustomText: text,
		Quantity:   quantity,
	}
}

func TestGetCartCreatesEmptyCart(t *testing.T) {
	svc, carts := newCartService()

	cart, err := svc.GetCart(context.Background(), &types.GetCartRequest{UserID: testUserID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cart.Items) != 0 || !cart.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
	if carts.saves != 1 {
		t.Fatalf("expected the new cart to be stored, got %d saves", carts.saves)
	}
}

func TestAddItemMergesIdenticalLines(t *testing.T) {
	svc, _ := newCartService()

	if _, err := svc.AddItem(context.Background(), addItem(1, "Large", "Black", "")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	cart, err := svc.AddItem(context.Background(), addItem(2, "Large", "black", ""))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("expected merged line of 3, got %+v", cart.Items)
	}

	cart, err = svc.AddItem(context.Background(), addItem(1, "Large", "Black", "Hello"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("custom text makes a separate line, got %d lines", len(cart.Items))
	}
	if !cart.Total.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected total 50.00, got %s", cart.Total)
	}
}

func TestAddItemValidatesProductOptions(t *testing.T) {
	svc, _ := newCartService()

	if _, err := svc.AddItem(context.Background(), addItem(1, "XXL", "Black", "")); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	if _, err := svc.AddItem(context.Background(), addItem(1, "Large", "Purple", "")); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}

	req := addItem(1, "Large", "Black", "")
	req.ProductID = 42
	if _, err := svc.AddItem(context.Background(), req); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateAndRemoveItem(t *testing.T) {
	svc, _ := newCartService()
	cart, _ := svc.AddItem(context.Background(), addItem(1, "Large", "Black", ""))
	itemID := cart.Items[0].ID

	text := "Team"
	cart, err := svc.UpdateItem(context.Background(), &types.UpdateCartItemRequest{
		UserID:     testUserID,
		ItemID:     itemID,
		Quantity:   4,
		Size:       "Medium",
		CustomText: &text,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	item := cart.Items[0]
	if item.Quantity != 4 || item.Size != "Medium" || item.CustomText != "Team" || item.Color != "Black" {
		t.Fatalf("unexpected item %+v", item)
	}
	if !cart.Total.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected total 50.00, got %s", cart.Total)
	}

	if _, err := svc.UpdateItem(context.Background(), &types.UpdateCartItemRequest{UserID: testUserID, ItemID: itemID, Size: "5XL"}); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	if _, err := svc.UpdateItem(context.Background(), &types.UpdateCartItemRequest{UserID: testUserID, ItemID: "missing", Quantity: 1}); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}

	cart, err = svc.RemoveItem(context.Background(), &types.RemoveCartItemRequest{UserID: testUserID, ItemID: itemID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cart.Items) != 0 || !cart.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
	if _, err := svc.RemoveItem(context.Background(), &types.RemoveCartItemRequest{UserID: testUserID, ItemID: itemID}); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}
