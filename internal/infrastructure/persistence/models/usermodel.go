package models

// UserModel is the local directory of people known to the desk. Identity
// lives with the campus login; this table only mirrors what the desk shows
// and mails.
type UserModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement:false"`
	DisplayName string `gorm:"size:100;not null"`
	Email       string `gorm:"size:255;not null;default:''"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (UserModel) TableName() string {
	return "users"
}
