package db

import (
	"time"

	"gorm.io/gorm"
)

// Artwork 定义了作品模型
// 来源元数据（SourceSite/SourceURL/SourcePostID/SourceDate）记录作品的出处，
// ImageCount/VideoCount/TotalBytes 为落库的原始统计，写入侧负责维护；
// 展示侧合并 APNG/视频兄弟文件后会另行重算展示统计。
type Artwork struct {
	gorm.Model
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	ArtistID    uint   `gorm:"index;not null"`
	Artist      Artist
	SeriesID    *uint `gorm:"index"`

	SourceSite   string     `gorm:"size:50;index"`
	SourceURL    string     `gorm:"size:500"`
	SourcePostID string     `gorm:"size:100"`
	SourceDate   *time.Time `gorm:"index"`

	ImageCount int   `gorm:"default:0"`
	VideoCount int   `gorm:"default:0"`
	TotalBytes int64 `gorm:"default:0"`

	Tags   []Tag   `gorm:"many2many:artwork_tags;"`
	Images []Image `gorm:"constraint:OnDelete:CASCADE"`
}
