package models

import "time"

// SiteStat is a flat key/value counter. Values are written by admin operations,
// not recomputed from content tables.
type SiteStat struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"column:stat_key;type:varchar(100);uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (SiteStat) TableName() string {
	return "site_stats"
}
