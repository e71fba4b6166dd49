package stats

import (
	"errors"
	"time"

	"github.com/carelinkhq/carechat-core/internal/database"
	"github.com/carelinkhq/carechat-core/internal/middleware"
	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/pkg/emotion"
	"gorm.io/gorm"
)

// alertSampleSize caps the user id sample attached to the alert count.
const alertSampleSize = 3

type Service struct {
	db *gorm.DB

	// now is swapped out by tests to pin the reporting windows.
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// monthWindows holds the reporting boundaries derived from "today". The
// previous-period end is capped so a partial current month is compared
// against an equally partial slice of the prior month.
type monthWindows struct {
	today         time.Time
	tomorrow      time.Time
	currentStart  time.Time
	prevStart     time.Time
	prevPeriodEnd time.Time
}

func windowsFor(now time.Time) monthWindows {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := currentStart.AddDate(0, -1, 0)
	prevPeriodEnd := prevStart.AddDate(0, 0, now.Day())
	if prevPeriodEnd.After(currentStart) {
		prevPeriodEnd = currentStart
	}
	return monthWindows{
		today:         today,
		tomorrow:      today.AddDate(0, 0, 1),
		currentStart:  currentStart,
		prevStart:     prevStart,
		prevPeriodEnd: prevPeriodEnd,
	}
}

// Summary computes the aggregate report for the app and, as a side effect,
// overwrites today's DailyStat snapshot.
func (s *Service) Summary(scope middleware.AppScope) (*SummaryResult, error) {
	w := windowsFor(s.now())

	total, err := s.countConversations(scope, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	currentMonth, err := s.countConversations(scope, w.currentStart, w.tomorrow)
	if err != nil {
		return nil, err
	}
	lastMonth, err := s.countConversations(scope, w.prevStart, w.prevPeriodEnd)
	if err != nil {
		return nil, err
	}
	todayConversations, err := s.countConversations(scope, w.today, w.tomorrow)
	if err != nil {
		return nil, err
	}

	newProfilesMonth, err := s.countNewProfiles(scope, w.currentStart, w.tomorrow)
	if err != nil {
		return nil, err
	}
	newProfilesToday, err := s.countNewProfiles(scope, w.today, w.tomorrow)
	if err != nil {
		return nil, err
	}

	distribution, err := s.emotionDistribution(scope)
	if err != nil {
		return nil, err
	}

	alertCount, alertSample, err := s.emotionAlerts(scope, w.currentStart, w.tomorrow)
	if err != nil {
		return nil, err
	}

	briefSummary, err := s.briefSummary(scope)
	if err != nil {
		return nil, err
	}

	err = s.upsertDaily(scope, w.today, models.DailyStatModel{
		ConversationCount:   todayConversations,
		NewProfileCount:     newProfilesToday,
		BriefSummary:        briefSummary,
		EmotionDistribution: distribution,
	})
	if err != nil {
		return nil, err
	}

	return &SummaryResult{
		TotalConversations:             total,
		CurrentMonthConversations:      currentMonth,
		LastMonthConversations:         lastMonth,
		ConversationMonthOverMonthRate: calculateMonthOverMonthRate(currentMonth, lastMonth),
		EmotionAlertCount:              alertCount,
		EmotionAlertUserIDs:            alertSample,
		NewProfilesCurrentMonth:        newProfilesMonth,
		BriefSummary:                   briefSummary,
		EmotionDistribution:            distribution,
	}, nil
}

// calculateMonthOverMonthRate returns (current-previous)/previous, or 0.0
// when previous is zero. A 0→N month therefore reports 0% rather than
// infinite growth.
func calculateMonthOverMonthRate(current, previous int64) float64 {
	if previous == 0 {
		return 0.0
	}
	return float64(current-previous) / float64(previous)
}

func (s *Service) countConversations(scope middleware.AppScope, start, end time.Time) (int64, error) {
	tx := s.db.Model(&models.ConversationModel{}).
		Where("tenant_id = ? AND app_id = ?", scope.TenantID, scope.AppID)
	if !start.IsZero() {
		tx = tx.Where("created_at >= ? AND created_at < ?", start, end)
	}
	var count int64
	return count, tx.Count(&count).Error
}

func (s *Service) countNewProfiles(scope middleware.AppScope, start, end time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.PatientProfileModel{}).
		Where("tenant_id = ? AND app_id = ?", scope.TenantID, scope.AppID).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// emotionDistribution tallies every profile's normalized emotion into a
// complete five-key histogram, zero-filled for absent categories.
func (s *Service) emotionDistribution(scope middleware.AppScope) (map[string]int64, error) {
	var rows []models.PatientProfileModel
	err := s.db.Select("emotion").
		Where("tenant_id = ? AND app_id = ?", scope.TenantID, scope.AppID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	distribution := make(map[string]int64, len(emotion.Categories))
	for _, cat := range emotion.Categories {
		distribution[cat] = 0
	}
	for _, row := range rows {
		raw := ""
		if row.Emotion != nil {
			raw = *row.Emotion
		}
		distribution[emotion.Normalize(raw)]++
	}
	return distribution, nil
}

// emotionAlerts counts profiles created this month whose emotion normalizes
// into an alert category, walking newest first, and samples the first few
// end user ids.
func (s *Service) emotionAlerts(scope middleware.AppScope, start, end time.Time) (int64, []string, error) {
	var rows []models.PatientProfileModel
	err := s.db.Select("end_user_id, emotion").
		Where("tenant_id = ? AND app_id = ?", scope.TenantID, scope.AppID).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return 0, nil, err
	}

	var count int64
	sample := make([]string, 0, alertSampleSize)
	for _, row := range rows {
		raw := ""
		if row.Emotion != nil {
			raw = *row.Emotion
		}
		if !emotion.IsAlert(emotion.Normalize(raw)) {
			continue
		}
		count++
		if len(sample) < alertSampleSize {
			sample = append(sample, row.EndUserID)
		}
	}
	return count, sample, nil
}

// briefSummary groups the app's brief texts by exact value. Empty texts and
// the "其他" catch-all bucket the chat model emits are excluded.
func (s *Service) briefSummary(scope middleware.AppScope) (map[string]int64, error) {
	var rows []struct {
		Brief string
		Count int64
	}
	err := s.db.Model(&models.BriefModel{}).
		Select("brief, COUNT(*) AS count").
		Where("tenant_id = ? AND app_id = ?", scope.TenantID, scope.AppID).
		Where("brief IS NOT NULL AND brief != '' AND brief != ?", "其他").
		Group("brief").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := make(map[string]int64, len(rows))
	for _, row := range rows {
		summary[row.Brief] = row.Count
	}
	return summary, nil
}

// upsertDaily overwrites today's snapshot row for the app, creating it on
// the first run of the day.
func (s *Service) upsertDaily(scope middleware.AppScope, day time.Time, agg models.DailyStatModel) error {
	var record models.DailyStatModel
	err := s.db.
		Where("tenant_id = ? AND app_id = ? AND stats_date = ?", scope.TenantID, scope.AppID, day).
		First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = models.DailyStatModel{
			TenantID:            scope.TenantID,
			AppID:               scope.AppID,
			StatsDate:           day,
			ConversationCount:   agg.ConversationCount,
			NewProfileCount:     agg.NewProfileCount,
			BriefSummary:        agg.BriefSummary,
			EmotionDistribution: agg.EmotionDistribution,
		}
		if createErr := s.db.Create(&record).Error; createErr != nil {
			if database.IsDuplicateKeyError(createErr) {
				// Another request already wrote today's row; update it.
				return s.upsertDaily(scope, day, agg)
			}
			return createErr
		}
		return nil
	}

	record.ConversationCount = agg.ConversationCount
	record.NewProfileCount = agg.NewProfileCount
	record.BriefSummary = agg.BriefSummary
	record.EmotionDistribution = agg.EmotionDistribution
	return s.db.Save(&record).Error
}
