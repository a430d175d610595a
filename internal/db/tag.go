package db

import "time"

// Tag 定义了标签模型
type Tag struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;uniqueIndex;not null"`
	Slug      string `gorm:"size:50;uniqueIndex;not null"`
	CreatedAt time.Time
	Posts     []Post `gorm:"many2many:post_tags;"`
}
