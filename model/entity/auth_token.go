package entity

import "time"

// AuthToken is a login token issued by the account backend.
type AuthToken struct {
	EntityID  uint      `gorm:"column:entity_id;primaryKey;autoIncrement" json:"-"`
	UserID    string    `gorm:"column:user_id;type:varchar(32);not null;index" json:"userId"`
	Token     string    `gorm:"column:token;type:varchar(96);not null;uniqueIndex" json:"token"`
	Revoked   bool      `gorm:"column:revoked;not null;default:false" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (AuthToken) TableName() string {
	return "auth_token"
}
