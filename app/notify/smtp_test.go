package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"github.com/vibast-solutions/ms-go-storefront/config"
)

func testOrder() *entity.Order {
	return &entity.Order{
		OrderID: "ORD-1700000000000",
		Items: []entity.OrderItem{{
			ProductName:     "Classic Tee",
			Size:            "Large",
			Color:           "Black",
			CustomText:      "Hello",
			Quantity:        2,
			PriceAtPurchase: decimal.RequireFromString("12.50"),
		}},
		Shipping:    entity.ShippingDetails{Name: "Ana Petrova", Street: "Main 1", City: "Skopje", Zip: "1000", Country: "MK"},
		TotalAmount: decimal.RequireFromString("25"),
	}
}

func TestNotifyPaidSendsConfirmation(t *testing.T) {
	n := NewSMTPNotifier(config.MailConfig{Host: "smtp.example", Port: 2525, From: "shop@example.com"})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	err := n.NotifyPaid(context.Background(), &entity.User{Name: "Ana", Email: "ana@example.com"}, testOrder())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotAddr != "smtp.example:2525" {
		t.Fatalf("unexpected smtp addr %s", gotAddr)
	}
	if len(gotTo) != 1 || gotTo[0] != "ana@example.com" {
		t.Fatalf("unexpected recipients %v", gotTo)
	}
	for _, want := range []string{"ORD-1700000000000", "2x Large Black Classic Tee", "25.00", "Skopje", "Thank you for your purchase, Ana!"} {
		if !strings.Contains(gotMsg, want) {
			t.Fatalf("expected message to contain %q:\n%s", want, gotMsg)
		}
	}
}

func TestNotifyPaidErrors(t *testing.T) {
	n := NewSMTPNotifier(config.MailConfig{Host: "smtp.example", Port: 25})
	n.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }

	if err := n.NotifyPaid(context.Background(), &entity.User{}, testOrder()); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
	if err := n.NotifyPaid(context.Background(), &entity.User{Email: "a@example.com"}, testOrder()); err == nil {
		t.Fatal("expected send failure to surface")
	}
	if err := NewSMTPNotifier(config.MailConfig{}).NotifyPaid(context.Background(), &entity.User{Email: "a@example.com"}, testOrder()); err == nil {
		t.Fatal("expected error for missing smtp host")
	}
}
