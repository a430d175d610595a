package service

import (
	"errors"
	"strings"

	"github.com/farout/internal/db"
	"github.com/farout/internal/slug"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

// CategoryService wraps category related database operations.
type CategoryService struct {
	db *gorm.DB
}

// CategoryInput represents fields accepted when creating or updating a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories ordered by name.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListWithPosts returns categories with their posts preloaded.
func (s *CategoryService) ListWithPosts() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Preload("Posts").Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Get fetches a category by id.
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetBySlug fetches a category by its slug.
func (s *CategoryService) GetBySlug(categorySlug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", categorySlug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category, deriving the slug from the name when absent.
func (s *CategoryService) Create(input CategoryInput) (*db.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	var existing db.Category
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	base := strings.TrimSpace(input.Slug)
	if base == "" {
		base = slug.Generate(name)
	}
	resolved, err := uniqueSlug(s.db, "categories", base, 0)
	if err != nil {
		return nil, err
	}

	category := db.Category{
		Name:        name,
		Slug:        resolved,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update changes category fields. The slug is kept as-is unless the caller
// cleared it, in which case it is re-derived from the current name.
func (s *CategoryService) Update(id uint, input CategoryInput) (*db.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var existing db.Category
	if err := s.db.Where("name = ? AND id <> ?", name, id).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category.Name = name
	category.Description = strings.TrimSpace(input.Description)

	if requested := strings.TrimSpace(input.Slug); requested == "" {
		resolved, err := uniqueSlug(s.db, "categories", slug.Generate(name), id)
		if err != nil {
			return nil, err
		}
		category.Slug = resolved
	} else if requested != category.Slug {
		resolved, err := uniqueSlug(s.db, "categories", requested, id)
		if err != nil {
			return nil, err
		}
		category.Slug = resolved
	}

	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category. Posts referencing it keep existing with the
// category reference cleared in the same transaction.
func (s *CategoryService) Delete(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// UpdateColumn 不刷新文章的 updated_at
		if err := tx.Model(&db.Post{}).
			Where("category_id = ?", id).
			UpdateColumn("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}
