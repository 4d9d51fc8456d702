package model

import "time"

// Address is the slice of the profile collaborator the closer needs: a
// default shipping address per buyer.
type Address struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	UserUID       string    `gorm:"column:user_uid;size:128;index;not null"`
	RecipientName string    `gorm:"column:recipient_name;size:128;not null"`
	Line1         string    `gorm:"column:line1;size:255;not null"`
	Line2         string    `gorm:"column:line2;size:255"`
	City          string    `gorm:"column:city;size:128;not null"`
	PostalCode    string    `gorm:"column:postal_code;size:32;not null"`
	IsDefault     bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Address) TableName() string {
	return "addresses"
}
