package conversation

import (
	"errors"
	"strings"
	"time"

	"github.com/carelinkhq/carechat-core/internal/middleware"
	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/pkg/pagination"
	"gorm.io/gorm"
)

// ErrInvalidTimeRange rejects malformed start/end filters before any query
// runs.
var ErrInvalidTimeRange = errors.New("start and end must be RFC 3339 timestamps, e.g. 2026-08-01T00:00:00Z")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Search returns one page of the app's conversations, newest first by
// default.
func (s *Service) Search(scope middleware.AppScope, q SearchQuery) (*SearchResult, error) {
	start, end, err := parseTimeRange(q.Start, q.End)
	if err != nil {
		return nil, err
	}

	tx := s.db.Model(&models.ConversationModel{}).
		Where("tenant_id = ? AND app_id = ?", scope.TenantID, scope.AppID)

	if q.EndUserID != "" {
		tx = tx.Where("end_user_id = ?", q.EndUserID)
	}
	if q.Keyword != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.Keyword)+"%")
	}
	if !start.IsZero() {
		tx = tx.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		tx = tx.Where("created_at < ?", end)
	}

	var rows []models.ConversationModel
	pag, err := pagination.Paginate(tx, q.Query, &rows)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Data: rows, Result: pag}, nil
}

func parseTimeRange(start, end string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if start != "" {
		if from, err = time.Parse(time.RFC3339, start); err != nil {
			return time.Time{}, time.Time{}, ErrInvalidTimeRange
		}
	}
	if end != "" {
		if to, err = time.Parse(time.RFC3339, end); err != nil {
			return time.Time{}, time.Time{}, ErrInvalidTimeRange
		}
	}
	return from, to, nil
}
