package db

import "gorm.io/gorm"

// Series 定义作品集（同一画师的成组作品）
type Series struct {
	gorm.Model
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	ArtistID    uint   `gorm:"index;not null"`
	Artist      Artist
	Artworks    []Artwork

	// ArtworkCount 由列表查询聚合得出，不落库。
	ArtworkCount int64 `gorm:"->;-:migration" json:"artwork_count"`
}

// TableName 显式指定表名，series 不参与自动复数化。
func (Series) TableName() string {
	return "series"
}
