package entity

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID    uint64
	Name  string
	Email string
	Role  string

	CreatedAt time.Time
}
