package entity

import "time"

const (
	PaymentCallbackProcessed int32 = 10
	PaymentCallbackRejected  int32 = 20
)

// PaymentCallback is the audit record of one inbound bank callback.
type PaymentCallback struct {
	ID uint64

	OrderRef *uint64

	Gateway     string
	ReturnOid   string
	Response    string
	Signature   string
	PayloadJSON string
	Status      int32
	Error       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
