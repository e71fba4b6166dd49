package brief

import (
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
	briefs := rg.Group("/briefs")
	briefs.PUT("", h.upsert)
	briefs.GET("", h.search)
}

func (h *Handler) upsert(c *gin.Context) {
	var dto UpsertBriefDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	record, err := h.svc.Upsert(middleware.ScopeFrom(c), dto.UserID, dto.ConversationID, dto.Brief)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, record)
}

func (h *Handler) search(c *gin.Context) {
	q := SearchQuery{
		UserID:  c.Query("user_id"),
		UserIDs: c.Query("user_ids"),
		Query:   pagination.FromContext(c),
	}

	result, err := h.svc.Search(middleware.ScopeFrom(c), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}
