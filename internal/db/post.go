package db

import "time"

const (
	// PostStatusDraft 表示草稿，不出现在任何公开路径。
	PostStatusDraft = "draft"
	// PostStatusPublished 表示已发布。
	PostStatusPublished = "published"
)

// Post 定义了文章模型。
// Slug 在创建时由标题派生一次，此后编辑标题不会重新生成。
type Post struct {
	ID              uint   `gorm:"primaryKey"`
	Title           string `gorm:"size:200;not null"`
	Slug            string `gorm:"size:200;uniqueIndex;not null"`
	Content         string `gorm:"type:text"`
	MetaDescription string `gorm:"size:160"`
	FeaturedImage   string
	Status          string `gorm:"size:10;default:draft;index"`
	Views           uint64 `gorm:"default:0"`
	ReadingTime     int
	UserID          uint `gorm:"not null;index"`
	User            User
	CategoryID      *uint `gorm:"index"`
	Category        *Category
	Tags            []Tag `gorm:"many2many:post_tags;"`
	Images          []PostImage
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PublishedAt     time.Time `gorm:"index"`
}
