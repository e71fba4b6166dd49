package profile

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/carelinkhq/carechat-core/internal/database"
	"github.com/carelinkhq/carechat-core/internal/middleware"
	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/pkg/emotion"
	"github.com/carelinkhq/carechat-core/internal/pkg/pagination"
	"gorm.io/gorm"
)

// ErrInvalidMonth rejects malformed month filters before any query runs.
var ErrInvalidMonth = errors.New("month must be YYYYMM, e.g. 202511")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetOrNone returns the profile for the user, or nil when absent.
func (s *Service) GetOrNone(scope middleware.AppScope, userID string) (*models.PatientProfileModel, error) {
	var record models.PatientProfileModel
	err := s.db.
		Where("tenant_id = ? AND app_id = ? AND end_user_id = ?", scope.TenantID, scope.AppID, userID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Upsert fully replaces the descriptive fields of the user's profile,
// creating it on first call. Fields omitted from the payload become NULL;
// callers must resend the complete set every time.
func (s *Service) Upsert(scope middleware.AppScope, userID string, dto UpsertProfileDTO) (*models.PatientProfileModel, error) {
	record, err := s.GetOrNone(scope, userID)
	if err != nil {
		return nil, err
	}

	if record == nil {
		record = &models.PatientProfileModel{
			TenantID:  scope.TenantID,
			AppID:     scope.AppID,
			EndUserID: userID,
		}
		applyPayload(record, dto)
		if err := s.db.Create(record).Error; err != nil {
			if database.IsDuplicateKeyError(err) {
				// Concurrent upsert won the insert; take the update path.
				if record, err = s.GetOrNone(scope, userID); err != nil {
					return nil, err
				}
				if record != nil {
					return s.replace(record, dto)
				}
			}
			return nil, err
		}
		return record, nil
	}

	return s.replace(record, dto)
}

// Search filters profiles and attaches each user's most recent brief.
func (s *Service) Search(scope middleware.AppScope, q SearchQuery) (*SearchResult, error) {
	tx := s.db.Model(&models.PatientProfileModel{}).
		Where("tenant_id = ? AND app_id = ?", scope.TenantID, scope.AppID)

	if q.Month != "" {
		start, end, err := parseMonthRange(q.Month)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("created_at >= ? AND created_at < ?", start, end)
	}

	if q.UserIDs != "" {
		if ids := pagination.SplitMultiValue(q.UserIDs); len(ids) > 0 {
			tx = tx.Where("end_user_id IN ?", ids)
		}
	} else if q.UserID != "" {
		tx = tx.Where("end_user_id = ?", q.UserID)
	}

	if q.Nickname != "" {
		tx = tx.Where("LOWER(nickname) LIKE ?", "%"+strings.ToLower(q.Nickname)+"%")
	}

	if q.Emotion != "" {
		if values := pagination.SplitMultiValue(q.Emotion); len(values) > 0 {
			cond := s.db.Where("emotion IN ?", values)
			for _, v := range values {
				// Asking for calm also matches profiles that never had an
				// emotion recorded.
				if emotion.IsCalmValue(v) {
					cond = cond.Or("emotion IS NULL").Or("emotion = ''")
					break
				}
			}
			tx = tx.Where(cond)
		}
	}

	if q.Compliance != "" {
		tx = tx.Where("compliance = ?", q.Compliance)
	}
	if q.CommunicationStyle != "" {
		tx = tx.Where("communication_style = ?", q.CommunicationStyle)
	}
	if q.HealthBehavior != "" {
		tx = tx.Where("health_behavior = ?", q.HealthBehavior)
	}

	var rows []models.PatientProfileModel
	pag, err := pagination.Paginate(tx, q.Query, &rows)
	if err != nil {
		return nil, err
	}

	latest, err := s.latestBriefsFor(scope, rows)
	if err != nil {
		return nil, err
	}

	data := make([]profileItem, len(rows))
	for i, row := range rows {
		item := profileItem{PatientProfileModel: row}
		if b, ok := latest[row.EndUserID]; ok {
			text := b.Brief
			cid := b.ConversationID
			item.LatestBrief = &text
			item.LatestBriefConversationID = &cid
		}
		data[i] = item
	}
	return &SearchResult{Data: data, Result: pag}, nil
}

func (s *Service) replace(record *models.PatientProfileModel, dto UpsertProfileDTO) (*models.PatientProfileModel, error) {
	applyPayload(record, dto)
	record.UpdatedAt = time.Now()
	// Save writes every column so omitted fields really become NULL.
	if err := s.db.Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func applyPayload(record *models.PatientProfileModel, dto UpsertProfileDTO) {
	record.Nickname = dto.Nickname
	record.Emotion = dto.Emotion
	record.Compliance = dto.Compliance
	record.CommunicationStyle = dto.CommunicationStyle
	record.HealthBehavior = dto.HealthBehavior
}

// latestBriefsFor returns each page user's most recently updated brief.
func (s *Service) latestBriefsFor(scope middleware.AppScope, rows []models.PatientProfileModel) (map[string]models.BriefModel, error) {
	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.EndUserID]; !ok {
			seen[row.EndUserID] = struct{}{}
			ids = append(ids, row.EndUserID)
		}
	}
	if len(ids) == 0 {
		return map[string]models.BriefModel{}, nil
	}

	var briefs []models.BriefModel
	err := s.db.
		Where("tenant_id = ? AND app_id = ? AND user_id IN ?", scope.TenantID, scope.AppID, ids).
		Order("user_id, updated_at DESC").
		Find(&briefs).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.BriefModel, len(ids))
	for _, b := range briefs {
		if _, ok := out[b.UserID]; !ok {
			out[b.UserID] = b
		}
	}
	return out, nil
}

// parseMonthRange turns a six-digit YYYYMM token into the half-open
// [start, end) range of that month.
func parseMonthRange(month string) (time.Time, time.Time, error) {
	if len(month) != 6 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	for _, r := range month {
		if r < '0' || r > '9' {
			return time.Time{}, time.Time{}, ErrInvalidMonth
		}
	}
	year, _ := strconv.Atoi(month[:4])
	monthNum, _ := strconv.Atoi(month[4:])
	if monthNum < 1 || monthNum > 12 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}

	start := time.Date(year, time.Month(monthNum), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0), nil
}
