package models

import "time"

type Nomenclature struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"column:code;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Nomenclature) TableName() string {
	return "nomenclatures"
}
