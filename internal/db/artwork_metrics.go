package db

import "time"

// ArtworkStatistic 汇总作品维度的浏览数据。
type ArtworkStatistic struct {
	ID             uint   `gorm:"primaryKey"`
	ArtworkID      uint   `gorm:"uniqueIndex"`
	PageViews      uint64 `gorm:"default:0"`
	UniqueVisitors uint64 `gorm:"default:0"`
	LastViewedAt   time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName 指定自定义表名，避免自动复数化导致的歧义。
func (ArtworkStatistic) TableName() string {
	return "artwork_statistics"
}

// ArtworkVisit 记录访客层面的浏览历史，用于 UV/PV 去重。
// ArtworkID + VisitorID 采用唯一索引，配合 OnConflict 幂等插入。
type ArtworkVisit struct {
	ID            uint   `gorm:"primaryKey"`
	ArtworkID     uint   `gorm:"uniqueIndex:idx_artwork_visitor"`
	VisitorID     string `gorm:"size:64;uniqueIndex:idx_artwork_visitor"`
	LastViewedAt  time.Time
	LastCountedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName 指定自定义表名。
func (ArtworkVisit) TableName() string {
	return "artwork_visits"
}
