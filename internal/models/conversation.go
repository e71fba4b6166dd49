package models

// ConversationModel mirrors the chat runtime's conversation rows. This
// service only reads them (stats counting, conversation search); creation and
// deletion belong to the chat runtime. Soft delete keeps deleted
// conversations out of every count.
type ConversationModel struct {
	Base
	TenantID  string `json:"tenant_id"   gorm:"type:char(36);not null;index:idx_conversations_app,priority:1"`
	AppID     string `json:"app_id"      gorm:"type:char(36);not null;index:idx_conversations_app,priority:2"`
	EndUserID string `json:"end_user_id" gorm:"size:255;index"`
	Name      string `json:"name"        gorm:"size:255"`
}

func (ConversationModel) TableName() string { return "conversations" }
