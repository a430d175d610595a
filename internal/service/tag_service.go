package service

import (
	"errors"
	"strings"

	"github.com/farout/internal/db"
	"github.com/farout/internal/slug"
	"gorm.io/gorm"
)

var (
	ErrTagExists   = errors.New("tag already exists")
	ErrTagNotFound = errors.New("tag not found")
)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

// TagInput represents fields accepted when creating or updating a tag.
type TagInput struct {
	Name string
	Slug string
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns all tags ordered by name.
func (s *TagService) List() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ListWithPosts returns tags with their associated posts preloaded.
func (s *TagService) ListWithPosts() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.Preload("Posts").Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetBySlug fetches a tag by its slug.
func (s *TagService) GetBySlug(tagSlug string) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.Where("slug = ?", tagSlug).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// Create inserts a new tag with unique name, deriving the slug when absent.
func (s *TagService) Create(input TagInput) (*db.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("tag name is required")
	}

	var existing db.Tag
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	}

	base := strings.TrimSpace(input.Slug)
	if base == "" {
		base = slug.Generate(name)
	}
	resolved, err := uniqueSlug(s.db, "tags", base, 0)
	if err != nil {
		return nil, err
	}

	tag := db.Tag{Name: name, Slug: resolved}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Update changes the tag name while keeping uniqueness. The slug stays
// unchanged unless cleared by the caller.
func (s *TagService) Update(id uint, input TagInput) (*db.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("tag name is required")
	}

	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	var existing db.Tag
	if err := s.db.Where("name = ? AND id <> ?", name, id).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	}

	tag.Name = name
	if requested := strings.TrimSpace(input.Slug); requested == "" {
		resolved, err := uniqueSlug(s.db, "tags", slug.Generate(name), id)
		if err != nil {
			return nil, err
		}
		tag.Slug = resolved
	} else if requested != tag.Slug {
		resolved, err := uniqueSlug(s.db, "tags", requested, id)
		if err != nil {
			return nil, err
		}
		tag.Slug = resolved
	}

	if err := s.db.Save(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag. Associations to posts are cleared first so the
// posts themselves persist untouched.
func (s *TagService) Delete(id uint) error {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tag).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// PublishedCount 统计标签下已发布文章数量。
func (s *TagService) PublishedCount(id uint) (int64, error) {
	var count int64
	if err := s.db.Model(&db.Post{}).
		Joins("JOIN post_tags ON posts.id = post_tags.post_id").
		Where("post_tags.tag_id = ?", id).
		Where("posts.status = ?", db.PostStatusPublished).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
