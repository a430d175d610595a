package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/farout/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostImageNotFound = errors.New("post image not found")
	ErrPostImageMissing  = errors.New("post image url is required")
	ErrPostImageOrder    = errors.New("invalid post image order")
)

// PostImageService handles the image set owned by a post.
type PostImageService struct {
	db *gorm.DB
}

// PostImageInput represents fields accepted when creating or updating a post image.
type PostImageInput struct {
	PostID    uint
	ImageURL  string
	Caption   string
	AltText   string
	SortOrder int
}

// NewPostImageService creates a PostImageService instance.
func NewPostImageService(gdb *gorm.DB) *PostImageService {
	return &PostImageService{db: gdb}
}

// ListForPost returns a post's images in display order.
func (s *PostImageService) ListForPost(postID uint) ([]db.PostImage, error) {
	var images []db.PostImage
	if err := s.db.
		Where("post_id = ?", postID).
		Order("sort_order asc").
		Order("uploaded_at asc").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Get fetches a post image by id.
func (s *PostImageService) Get(id uint) (*db.PostImage, error) {
	var image db.PostImage
	if err := s.db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

// Create attaches a new image to a post. An empty alt text falls back to the
// caption, or to a generated text referencing the post title.
func (s *PostImageService) Create(input PostImageInput) (*db.PostImage, error) {
	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		return nil, ErrPostImageMissing
	}

	var post db.Post
	if err := s.db.First(&post, input.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	sortOrder := input.SortOrder
	if sortOrder == 0 {
		next, err := s.nextSortOrder(input.PostID)
		if err != nil {
			return nil, err
		}
		sortOrder = next
	}

	image := db.PostImage{
		PostID:    input.PostID,
		ImageURL:  imageURL,
		Caption:   strings.TrimSpace(input.Caption),
		AltText:   strings.TrimSpace(input.AltText),
		SortOrder: sortOrder,
	}
	if image.AltText == "" {
		image.AltText = fallbackAltText(image.Caption, post.Title)
	}

	if err := s.db.Create(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// Update modifies an existing post image, reapplying the alt text fallback.
// Unlike Create, SortOrder is taken verbatim: zero is a valid explicit
// position here, so an image can be moved to the front of the sequence.
func (s *PostImageService) Update(id uint, input PostImageInput) (*db.PostImage, error) {
	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		return nil, ErrPostImageMissing
	}

	var image db.PostImage
	if err := s.db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostImageNotFound
		}
		return nil, err
	}

	var post db.Post
	if err := s.db.First(&post, image.PostID).Error; err != nil {
		return nil, err
	}

	image.ImageURL = imageURL
	image.Caption = strings.TrimSpace(input.Caption)
	image.AltText = strings.TrimSpace(input.AltText)
	image.SortOrder = input.SortOrder
	if image.AltText == "" {
		image.AltText = fallbackAltText(image.Caption, post.Title)
	}

	if err := s.db.Save(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// Delete removes a post image.
func (s *PostImageService) Delete(id uint) error {
	var image db.PostImage
	if err := s.db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostImageNotFound
		}
		return err
	}
	return s.db.Delete(&image).Error
}

// Reorder updates the display order of a post's images based on the provided
// ids sequence.
func (s *PostImageService) Reorder(postID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return ErrPostImageOrder
		}
		if _, ok := seen[id]; ok {
			return ErrPostImageOrder
		}
		seen[id] = struct{}{}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			result := tx.Model(&db.PostImage{}).
				Where("id = ? AND post_id = ?", id, postID).
				Update("sort_order", idx)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrPostImageNotFound
			}
		}
		return nil
	})
}

func (s *PostImageService) nextSortOrder(postID uint) (int, error) {
	var maxOrder int
	if err := s.db.Model(&db.PostImage{}).
		Where("post_id = ?", postID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func fallbackAltText(caption, postTitle string) string {
	if caption != "" {
		return caption
	}
	return fmt.Sprintf("Image for %s", postTitle)
}
