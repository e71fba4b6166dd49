package models

// PatientProfileModel is the per-end-user descriptive record. All descriptive
// fields are nullable and fully overwritten on every upsert: callers resend
// the complete set, omitted fields become NULL.
type PatientProfileModel struct {
	Base
	TenantID           string  `json:"tenant_id"           gorm:"type:char(36);not null;uniqueIndex:uq_profile_end_user,priority:1"`
	AppID              string  `json:"app_id"              gorm:"type:char(36);not null;uniqueIndex:uq_profile_end_user,priority:2;index:idx_profiles_app_created,priority:1"`
	EndUserID          string  `json:"end_user_id"         gorm:"size:255;not null;uniqueIndex:uq_profile_end_user,priority:3"`
	Nickname           *string `json:"nickname"            gorm:"size:255"`
	Emotion            *string `json:"emotion"             gorm:"size:255"`
	Compliance         *string `json:"compliance"          gorm:"size:255"`
	CommunicationStyle *string `json:"communication_style" gorm:"size:255"`
	HealthBehavior     *string `json:"health_behavior"     gorm:"size:255"`
}

func (PatientProfileModel) TableName() string { return "patient_profiles" }
