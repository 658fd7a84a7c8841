package db

import "gorm.io/gorm"

// ArtistLink 保存画师的外部主页与社交链接
// 支持自定义排序与平台图标
// Icon 字段用于匹配前端内置的图标
// Visible 标记是否在画师页展示
// Sort 值越小越靠前

type ArtistLink struct {
	gorm.Model
	ArtistID uint   `gorm:"index;not null"`
	Platform string `gorm:"size:50;not null"`
	Label    string `gorm:"size:80"`
	URL      string `gorm:"size:500;not null"`
	Icon     string `gorm:"size:50"`
	Sort     int    `gorm:"default:0"`
	Visible  bool
}

// TableName 返回自定义表名，避免冲突
func (ArtistLink) TableName() string {
	return "artist_links"
}
