package entity

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID          string                       `gorm:"column:id;primaryKey;type:varchar(32)" json:"id" validate:"required"`
	Email       string                       `gorm:"column:email;type:varchar(128);not null;uniqueIndex" json:"email" validate:"required,email"`
	Password    string                       `gorm:"column:password;type:varchar(128);not null" json:"password,omitempty" validate:"required"`
	FirstName   string                       `gorm:"column:first_name;type:varchar(64)" json:"firstName" validate:"required"`
	LastName    string                       `gorm:"column:last_name;type:varchar(64)" json:"lastName"`
	Phone       string                       `gorm:"column:phone;type:varchar(32)" json:"phone,omitempty"`
	Avatar      string                       `gorm:"column:avatar;type:varchar(255)" json:"avatar,omitempty"`
	DateOfBirth string                       `gorm:"column:date_of_birth;type:varchar(10)" json:"dateOfBirth,omitempty"`
	JoinDate    time.Time                    `gorm:"column:join_date" json:"joinDate"`
	Settings    datatypes.JSONType[Settings] `gorm:"column:settings" json:"settings"`
}

func (User) TableName() string {
	return "customer_user"
}

// Public returns a copy without the password.
func (u User) Public() User {
	u.Password = ""
	return u
}

type Settings struct {
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
}

type NotificationSettings struct {
	OrderUpdates      bool `json:"orderUpdates"`
	PromotionalEmails bool `json:"promotionalEmails"`
	Newsletter        bool `json:"newsletter"`
}

type PrivacySettings struct {
	ProfileVisibility string `json:"profileVisibility"`
}

// DefaultSettings is applied to newly registered users.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{OrderUpdates: true, PromotionalEmails: false},
		Privacy:       PrivacySettings{ProfileVisibility: "public"},
	}
}
