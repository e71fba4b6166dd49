package profile

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
	patients := rg.Group("/patients")
	patients.GET("/search", h.search)
	patients.GET("/:user_id/profile", h.get)
	patients.PUT("/:user_id/profile", h.upsert)
}

func (h *Handler) get(c *gin.Context) {
	record, err := h.svc.GetOrNone(middleware.ScopeFrom(c), c.Param("user_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, SingleResult{Profile: record})
}

func (h *Handler) upsert(c *gin.Context) {
	var dto UpsertProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	record, err := h.svc.Upsert(middleware.ScopeFrom(c), c.Param("user_id"), dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, SingleResult{Profile: record})
}

func (h *Handler) search(c *gin.Context) {
	q := SearchQuery{
		Month:              c.Query("month"),
		UserID:             c.Query("user_id"),
		UserIDs:            c.Query("user_ids"),
		Nickname:           c.Query("nickname"),
		Emotion:            c.Query("emotion"),
		Compliance:         c.Query("compliance"),
		CommunicationStyle: c.Query("communication_style"),
		HealthBehavior:     c.Query("health_behavior"),
		Query:              pagination.FromContext(c),
	}

	result, err := h.svc.Search(middleware.ScopeFrom(c), q)
	if err != nil {
		if errors.Is(err, ErrInvalidMonth) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}
