package db

import "gorm.io/gorm"

// Tag 定义了标签模型
type Tag struct {
	gorm.Model
	Name      string    `gorm:"unique;not null"`
	SortOrder int       `gorm:"default:0"`
	Artworks  []Artwork `gorm:"many2many:artwork_tags;"`

	// ArtworkCount 由列表查询聚合得出，不落库。
	ArtworkCount int64 `gorm:"->;-:migration" json:"artwork_count"`
}
