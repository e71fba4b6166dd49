package conversation

import (
	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/pkg/pagination"
)

// SearchQuery carries the conversation search filters. Start and End bound
// created_at as an RFC 3339 half-open range; either side may be omitted.
type SearchQuery struct {
	EndUserID string
	Keyword   string // substring match on conversation name
	Start     string
	End       string
	pagination.Query
}

// SearchResult is the paginated search envelope.
type SearchResult struct {
	Data []models.ConversationModel `json:"data"`
	pagination.Result
}
