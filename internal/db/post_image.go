package db

import "time"

// PostImage 定义了文章插图模型，归属文章并随文章一同删除。
type PostImage struct {
	ID         uint   `gorm:"primaryKey"`
	PostID     uint   `gorm:"index;not null"`
	ImageURL   string `gorm:"not null"`
	Caption    string `gorm:"size:200"`
	AltText    string `gorm:"size:100"`
	SortOrder  int    `gorm:"default:0"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

// TableName 指定自定义表名。
func (PostImage) TableName() string {
	return "post_images"
}
