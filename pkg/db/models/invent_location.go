package models

import "time"

// InventLocation is a warehouse-like site; RFCGUID is the ERP department GUID.
type InventLocation struct {
	ID               uint      `gorm:"primaryKey"`
	InventLocationID string    `gorm:"column:invent_location_id;not null;uniqueIndex"`
	Name             string    `gorm:"column:name;not null;default:''"`
	RFCGUID          string    `gorm:"column:rfc_guid;not null;default:''"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (InventLocation) TableName() string {
	return "invent_locations"
}
