package profile

import (
	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/pkg/pagination"
)

// UpsertProfileDTO carries the complete descriptive field set. Upsert has
// full-replace semantics: an omitted field is stored as NULL, even when a
// previous value exists.
type UpsertProfileDTO struct {
	Nickname           *string `json:"nickname"`
	Emotion            *string `json:"emotion"`
	Compliance         *string `json:"compliance"`
	CommunicationStyle *string `json:"communication_style"`
	HealthBehavior     *string `json:"health_behavior"`
}

// SearchQuery carries the profile search filters, applied in declaration
// order. UserIDs takes precedence over UserID when both are present.
type SearchQuery struct {
	Month              string // YYYYMM creation-month filter
	UserID             string
	UserIDs            string
	Nickname           string // case-insensitive substring
	Emotion            string // exact or comma-separated set
	Compliance         string
	CommunicationStyle string
	HealthBehavior     string
	pagination.Query
}

type profileItem struct {
	models.PatientProfileModel
	LatestBrief               *string `json:"latest_brief"`
	LatestBriefConversationID *string `json:"latest_brief_conversation_id"`
}

// SearchResult is the paginated search envelope. Profile is always null in
// search responses; only the single-record endpoints populate it.
type SearchResult struct {
	Profile *profileItem  `json:"profile"`
	Data    []profileItem `json:"data"`
	pagination.Result
}

// SingleResult wraps one profile (or null) for the fetch/upsert endpoints.
type SingleResult struct {
	Profile *models.PatientProfileModel `json:"profile"`
}
