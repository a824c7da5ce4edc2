package entity

import "time"

// FailedPaymentEvent is published when a capture is declined.
//
// RequestID is the correlation id of the request that triggered the capture
// so the consumer can log under the same id.
type FailedPaymentEvent struct {
	EventID    string
	PaymentID  int64
	RequestID  string
	Reason     string
	OccurredAt time.Time
}
