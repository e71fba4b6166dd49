package conversation

import (
	"errors"

	"github.com/carelinkhq/carechat-core/internal/middleware"
	"github.com/carelinkhq/carechat-core/internal/pkg/pagination"
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
	rg.GET("/conversations", h.search)
}

func (h *Handler) search(c *gin.Context) {
	q := SearchQuery{
		EndUserID: c.Query("end_user_id"),
		Keyword:   c.Query("keyword"),
		Start:     c.Query("start"),
		End:       c.Query("end"),
		Query:     pagination.FromContext(c),
	}

	result, err := h.svc.Search(middleware.ScopeFrom(c), q)
	if err != nil {
		if errors.Is(err, ErrInvalidTimeRange) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}
