package entity

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusCaptured Status = "CAPTURED"
	StatusFailed   Status = "FAILED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCaptured, StatusFailed:
		return true
	default:
		return false
	}
}

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyIDR Currency = "IDR"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyIDR:
		return true
	default:
		return false
	}
}
