package inbound

import (
	"github.com/incubmainer/somegram-backend-sub002/internal/payment/usecase"
	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkgrouter"
)

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc usecase.Service) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/payments", end.Create)
	r.GET("/payments", end.List) // ?page=&page_size=&status=&currency=
	r.GET("/payments/:id", end.Get)
	r.POST("/payments/:id/capture", end.Capture) // ?wait=false returns before the capture settles
}
