package db

import "time"

// watchModel is the persisted watch row. Schema changes must stay additive:
// existing rows keep working through column defaults alone.
type watchModel struct {
	ChatID     int64  `gorm:"primaryKey;autoIncrement:false"`
	Address    string `gorm:"primaryKey"`
	LastSeenTS int64  `gorm:"not null;default:0"`
	Threshold  string `gorm:"not null;default:0"`
	Paused     bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (watchModel) TableName() string {
	return "watches"
}
