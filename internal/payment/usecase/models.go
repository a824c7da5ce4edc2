package usecase

import (
	"slices"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/entity"
)

// MaxPageSize caps List page sizes.
const MaxPageSize = 100

type CreateInput struct {
	Reference string          `json:"reference"`
	Amount    int64           `json:"amount"`
	Currency  entity.Currency `json:"currency"`
}

type ListInput struct {
	Filter   ListFilter `json:"filter"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

type ListResult struct {
	Payments []entity.Payment
	Page     int
	PageSize int
	Total    int
}

type ListFilter struct {
	Statuses []entity.Status `json:"statuses,omitempty"`
	Currency entity.Currency `json:"currency,omitempty"`
}

func (f ListFilter) Matches(p entity.Payment) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, p.Status) {
		return false
	}

	if f.Currency != "" && p.Currency != f.Currency {
		return false
	}

	return true
}
