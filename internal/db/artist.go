package db

import "gorm.io/gorm"

// Artist 定义了画师模型
// Username 为收藏目录使用的唯一标识，Name 为展示名
// Bio 支持 Markdown，渲染时统一经过 sanitizer
type Artist struct {
	gorm.Model
	Name      string `gorm:"size:120;not null;index"`
	Username  string `gorm:"size:120;uniqueIndex;not null"`
	Bio       string `gorm:"type:text"`
	AvatarURL string `gorm:"size:500"`
	Artworks  []Artwork
	Links     []ArtistLink

	// ArtworkCount 由列表查询聚合得出，不落库。
	ArtworkCount int64 `gorm:"->;-:migration" json:"artwork_count"`
}
