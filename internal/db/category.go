package db

import "time"

// Category 定义了文章分类模型。
// 分类为硬删除，删除时由服务层将关联文章的 category_id 置空。
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;uniqueIndex;not null"`
	Slug        string `gorm:"size:100;uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	Posts       []Post
}
