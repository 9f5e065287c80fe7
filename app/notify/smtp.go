package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"github.com/vibast-solutions/ms-go-storefront/config"
)

var ErrNoRecipient = errors.New("user has no email address")

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends plain-text order confirmations.
type SMTPNotifier struct {
	cfg  config.MailConfig
	send sendFunc
}

func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

func (n *SMTPNotifier) NotifyPaid(ctx context.Context, user *entity.User, order *entity.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(n.cfg.Host) == "" {
		return errors.New("smtp host is not configured")
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return ErrNoRecipient
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	msg := buildConfirmationMessage(n.cfg.From, user, order)
	if err := n.send(addr, auth, n.cfg.From, []string{user.Email}, msg); err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	return nil
}

func buildConfirmationMessage(from string, user *entity.User, order *entity.Order) []byte {
	name := strings.TrimSpace(user.Name)
	if name == "" {
		name = "Valued Customer"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", user.Email)
	fmt.Fprintf(&b, "Subject: Order Confirmation - Your Order #%s is Confirmed\r\n", order.OrderID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "Thank you for your purchase, %s!\r\n\r\n", name)
	fmt.Fprintf(&b, "We have received your order #%s.\r\n\r\n", order.OrderID)

	b.WriteString("Order summary:\r\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %dx %s %s %s", item.Quantity, item.Size, item.Color, item.ProductName)
		if item.CustomText != "" {
			fmt.Fprintf(&b, " (custom text: %q)", item.CustomText)
		}
		fmt.Fprintf(&b, " - %s\r\n", item.LineTotal().StringFixed(2))
	}

	s := order.Shipping
	b.WriteString("\r\nShipping to:\r\n")
	fmt.Fprintf(&b, "  %s\r\n  %s\r\n  %s %s %s\r\n  %s\r\n", s.Name, s.Street, s.City, s.State, s.Zip, s.Country)

	fmt.Fprintf(&b, "\r\nTotal: %s\r\n", order.TotalAmount.StringFixed(2))
	return []byte(b.String())
}
