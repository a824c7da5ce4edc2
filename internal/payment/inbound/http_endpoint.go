package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/incubmainer/somegram-backend-sub002/internal/payment/entity"
	"github.com/incubmainer/somegram-backend-sub002/internal/payment/usecase"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgerror"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgrouter"
)

const maxBodyBytes = 1 << 20

type HTTPEndpoint struct {
	uc usecase.Service
}

func (h *HTTPEndpoint) Create(ctx context.Context, r *http.Request) (any, error) {
	var req CreatePaymentRequest
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	p, err := h.uc.Create(ctx, usecase.CreateInput{
		Reference: req.Reference,
		Amount:    req.Amount,
		Currency:  entity.Currency(req.Currency),
	})
	if err != nil {
		return nil, err
	}

	return CreatePaymentResponse{Payment: toHTTPPayment(p)}, nil
}

func (h *HTTPEndpoint) Get(ctx context.Context, r *http.Request) (any, error) {
	id, err := parseID(pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	p, err := h.uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return toHTTPPayment(p), nil
}

func (h *HTTPEndpoint) List(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	page, pageSize, err := parsePagination(query.Get("page"), query.Get("page_size"))
	if err != nil {
		return nil, err
	}

	filter, err := parseListFilter(query.Get("status"), query.Get("currency"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.List(ctx, usecase.ListInput{Filter: filter, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}

	payments := make([]Payment, 0, len(result.Payments))
	for _, p := range result.Payments {
		payments = append(payments, toHTTPPayment(p))
	}

	return ListPaymentsResponse{
		Payments: payments,
		page:     result.Page,
		pageSize: result.PageSize,
		total:    result.Total,
	}, nil
}

// Capture starts a capture and, unless wait=false, blocks until it settles.
// Leaving early does not stop the capture.
func (h *HTTPEndpoint) Capture(ctx context.Context, r *http.Request) (any, error) {
	id, err := parseID(pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	wait := true
	if raw := r.URL.Query().Get("wait"); raw != "" {
		wait, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, pkgerror.NewInvalidInput(errors.New("invalid wait"))
		}
	}

	fut := h.uc.Capture(ctx, id)

	if !wait {
		p, err := h.uc.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return CaptureAcceptedResponse{Payment: toHTTPPayment(p)}, nil
	}

	p, err := fut.Await(ctx)
	if err != nil {
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "client left before capture settled", "payment_id", id)
		}
		return nil, err
	}

	return toHTTPPayment(p), nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerror.NewInvalidInput(errors.New("invalid payment id"))
	}
	return id, nil
}

func parsePagination(pageRaw, sizeRaw string) (int, int, error) {
	page := 1
	pageSize := 10

	if pageRaw != "" {
		value, err := strconv.Atoi(pageRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page"))
		}
		page = value
	}

	if sizeRaw != "" {
		value, err := strconv.Atoi(sizeRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page_size"))
		}
		pageSize = min(value, usecase.MaxPageSize)
	}

	return page, pageSize, nil
}

func parseListFilter(statusRaw, currencyRaw string) (usecase.ListFilter, error) {
	filter := usecase.ListFilter{}

	for value := range strings.SplitSeq(statusRaw, ",") {
		value = strings.ToUpper(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		status := entity.Status(value)
		if !status.Valid() {
			return filter, pkgerror.NewInvalidInput(errors.New("invalid status filter"))
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	if currencyRaw = strings.TrimSpace(currencyRaw); currencyRaw != "" {
		currency := entity.Currency(strings.ToUpper(currencyRaw))
		if !currency.Valid() {
			return filter, pkgerror.NewInvalidInput(errors.New("invalid currency filter"))
		}
		filter.Currency = currency
	}

	return filter, nil
}

func toHTTPPayment(p entity.Payment) Payment {
	return Payment{
		ID:            strconv.FormatInt(p.ID, 10),
		Reference:     p.Reference,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        p.Status,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
