package stats

import (
	"github.com/carelinkhq/carechat-core/internal/middleware"
	"github.com/carelinkhq/carechat-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats/summary", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	result, err := h.svc.Summary(middleware.ScopeFrom(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}
