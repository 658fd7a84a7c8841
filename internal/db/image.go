package db

import "gorm.io/gorm"

// Image 定义单个媒体文件（图片或视频原件）
// Path 为相对 MEDIA_DIR 的路径，FileName 保留磁盘上的原始文件名，
// 媒体类别不落库，展示时按扩展名推断。
type Image struct {
	gorm.Model
	ArtworkID uint   `gorm:"index;not null"`
	FileName  string `gorm:"size:255;not null"`
	Path      string `gorm:"size:500;not null"`
	Width     int
	Height    int
	FileSize  int64
	SortOrder int `gorm:"default:0;index"`
}

// TableName 指定自定义表名。
func (Image) TableName() string {
	return "images"
}
