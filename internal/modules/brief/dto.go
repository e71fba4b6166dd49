package brief

import (
	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/pkg/pagination"
)

type UpsertBriefDTO struct {
	UserID         string `json:"user_id"         binding:"required"`
	ConversationID string `json:"conversation_id" binding:"required,uuid"`
	Brief          string `json:"brief"           binding:"required"`
}

// SearchQuery carries the brief search filters. UserID wins over UserIDs when
// both are present.
type SearchQuery struct {
	UserID  string
	UserIDs string
	pagination.Query
}

type briefItem struct {
	models.BriefModel
	Nickname *string `json:"nickname"`
}

// SearchResult is the paginated search envelope.
type SearchResult struct {
	Data []briefItem `json:"data"`
	pagination.Result
}
