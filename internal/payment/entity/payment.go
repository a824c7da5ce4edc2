package entity

import "time"

// Payment is a charge created by a client and captured later.
//
// Amount is in the minor unit of Currency.
type Payment struct {
	ID            int64
	Reference     string
	Amount        int64
	Currency      Currency
	Status        Status
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
