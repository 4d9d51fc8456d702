package model

import "time"

const SettingKeyCommissionRate = "commission_rate"

// Setting is a platform-wide key/value row. Readers snapshot the value at
// use time; changing a setting never rewrites history.
type Setting struct {
	Key       string    `gorm:"column:key;primaryKey;size:64"`
	Value     string    `gorm:"column:value;size:255;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Setting) TableName() string {
	return "settings"
}
