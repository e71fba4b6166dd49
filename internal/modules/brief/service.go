package brief

import (
	"errors"

	"github.com/carelinkhq/carechat-core/internal/database"
	"github.com/carelinkhq/carechat-core/internal/middleware"
	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/pkg/pagination"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Upsert overwrites the brief for the (tenant, app, user, conversation) key,
// creating the record on first call. A duplicate-key error on create means a
// concurrent upsert won the insert; the update path is taken instead.
func (s *Service) Upsert(scope middleware.AppScope, userID, conversationID, text string) (*models.BriefModel, error) {
	existing, err := s.find(scope, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.overwrite(existing, text)
	}

	record := models.BriefModel{
		TenantID:       scope.TenantID,
		AppID:          scope.AppID,
		UserID:         userID,
		ConversationID: conversationID,
		Brief:          text,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if database.IsDuplicateKeyError(err) {
			if existing, err = s.find(scope, userID, conversationID); err != nil {
				return nil, err
			}
			if existing != nil {
				return s.overwrite(existing, text)
			}
		}
		return nil, err
	}
	return &record, nil
}

// Search returns one page of briefs for the app, newest first by default,
// with nicknames attached from patient profiles.
func (s *Service) Search(scope middleware.AppScope, q SearchQuery) (*SearchResult, error) {
	tx := s.db.Model(&models.BriefModel{}).
		Where("tenant_id = ? AND app_id = ?", scope.TenantID, scope.AppID)

	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	} else if q.UserIDs != "" {
		if ids := pagination.SplitMultiValue(q.UserIDs); len(ids) > 0 {
			tx = tx.Where("user_id IN ?", ids)
		}
	}

	var rows []models.BriefModel
	pag, err := pagination.Paginate(tx, q.Query, &rows)
	if err != nil {
		return nil, err
	}

	nicknames, err := s.nicknamesFor(scope, rows)
	if err != nil {
		return nil, err
	}

	data := make([]briefItem, len(rows))
	for i, row := range rows {
		data[i] = briefItem{BriefModel: row, Nickname: nicknames[row.UserID]}
	}
	return &SearchResult{Data: data, Result: pag}, nil
}

func (s *Service) find(scope middleware.AppScope, userID, conversationID string) (*models.BriefModel, error) {
	var record models.BriefModel
	err := s.db.
		Where("tenant_id = ? AND app_id = ? AND user_id = ? AND conversation_id = ?",
			scope.TenantID, scope.AppID, userID, conversationID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (s *Service) overwrite(record *models.BriefModel, text string) (*models.BriefModel, error) {
	if err := s.db.Model(record).Update("brief", text).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// nicknamesFor maps the distinct user ids on the page to their profile
// nickname. Users without a profile are absent from the map.
func (s *Service) nicknamesFor(scope middleware.AppScope, rows []models.BriefModel) (map[string]*string, error) {
	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.UserID]; !ok {
			seen[row.UserID] = struct{}{}
			ids = append(ids, row.UserID)
		}
	}
	if len(ids) == 0 {
		return map[string]*string{}, nil
	}

	var profiles []models.PatientProfileModel
	err := s.db.Select("end_user_id, nickname").
		Where("tenant_id = ? AND app_id = ? AND end_user_id IN ?", scope.TenantID, scope.AppID, ids).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]*string, len(profiles))
	for _, p := range profiles {
		out[p.EndUserID] = p.Nickname
	}
	return out, nil
}
