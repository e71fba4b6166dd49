package models

import "time"

// AppTokenModel resolves an opaque service-API token to its (tenant, app)
// scope. Tokens are issued out of band by the platform console.
type AppTokenModel struct {
	Base
	Token     string     `json:"-"          gorm:"size:255;not null;uniqueIndex"`
	TenantID  string     `json:"tenant_id"  gorm:"type:char(36);not null"`
	AppID     string     `json:"app_id"     gorm:"type:char(36);not null;index"`
	Name      string     `json:"name"       gorm:"size:255"`
	ExpiredAt *time.Time `json:"expired_at"`
}

func (AppTokenModel) TableName() string { return "app_tokens" }
