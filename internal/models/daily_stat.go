package models

import "time"

// DailyStatModel is the per-app per-day cached aggregate snapshot. It is
// recomputed and overwritten wholesale on every stats-summary run for "today";
// it is a cache, not a source of truth.
type DailyStatModel struct {
	Base
	TenantID            string           `json:"tenant_id"  gorm:"type:char(36);not null;uniqueIndex:uq_daily_stats_date,priority:1"`
	AppID               string           `json:"app_id"     gorm:"type:char(36);not null;uniqueIndex:uq_daily_stats_date,priority:2;index:idx_daily_stats_app_date,priority:1"`
	StatsDate           time.Time        `json:"stats_date" gorm:"not null;uniqueIndex:uq_daily_stats_date,priority:3;index:idx_daily_stats_app_date,priority:2"`
	ConversationCount   int64            `json:"conversation_count"   gorm:"not null;default:0"`
	NewProfileCount     int64            `json:"new_profile_count"    gorm:"not null;default:0"`
	BriefSummary        map[string]int64 `json:"brief_summary"        gorm:"type:longtext;serializer:json"`
	EmotionDistribution map[string]int64 `json:"emotion_distribution" gorm:"type:longtext;serializer:json"`
}

func (DailyStatModel) TableName() string { return "daily_app_stats" }
