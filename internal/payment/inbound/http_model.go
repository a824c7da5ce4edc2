package inbound

import (
	"net/http"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/entity"
)

type CreatePaymentRequest struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

type Payment struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	Amount        int64           `json:"amount"`
	Currency      entity.Currency `json:"currency"`
	Status        entity.Status   `json:"status"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type CreatePaymentResponse struct {
	Payment
}

func (CreatePaymentResponse) StatusCode() int {
	return http.StatusCreated
}

func (CreatePaymentResponse) Message() string {
	return "payment created"
}

type CaptureAcceptedResponse struct {
	Payment
}

func (CaptureAcceptedResponse) StatusCode() int {
	return http.StatusAccepted
}

func (CaptureAcceptedResponse) Message() string {
	return "capture accepted"
}

type ListPaymentsResponse struct {
	Payments []Payment `json:"payments"`
	page     int
	pageSize int
	total    int
}

func (r ListPaymentsResponse) Meta() map[string]any {
	return map[string]any{
		"page":      r.page,
		"page_size": r.pageSize,
		"total":     r.total,
	}
}
