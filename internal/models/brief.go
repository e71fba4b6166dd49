package models

// BriefModel is the short free-text summary attached to one conversation.
// Unique per (tenant, app, user, conversation); mutated in place on repeated
// upserts, never deleted by this service.
type BriefModel struct {
	Base
	TenantID       string `json:"tenant_id"       gorm:"type:char(36);not null;uniqueIndex:uq_brief_user_conversation,priority:1"`
	AppID          string `json:"app_id"          gorm:"type:char(36);not null;uniqueIndex:uq_brief_user_conversation,priority:2;index:idx_briefs_app_user,priority:1"`
	UserID         string `json:"user_id"         gorm:"size:255;not null;uniqueIndex:uq_brief_user_conversation,priority:3;index:idx_briefs_app_user,priority:2"`
	ConversationID string `json:"conversation_id" gorm:"type:char(36);not null;uniqueIndex:uq_brief_user_conversation,priority:4"`
	Brief          string `json:"brief"           gorm:"type:text"`
}

func (BriefModel) TableName() string { return "conversation_briefs" }
