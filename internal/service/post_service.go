package service

import (
	"errors"
	"strings"
	"time"

	"github.com/farout/internal/db"
	"github.com/farout/internal/slug"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPostTitleRequired = errors.New("post title is required")
	ErrPostStatusInvalid = errors.New("post status is invalid")
)

// RelatedPostLimit 是文章详情页相关推荐的默认数量。
const RelatedPostLimit = 3

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PublicFilter describes filters for the public post listing. All supplied
// filters combine conjunctively on top of the published-only base predicate.
type PublicFilter struct {
	Search       string
	CategorySlug string
	TagSlug      string
	Page         int
	PerPage      int
}

// AdminFilter describes filters for the admin post listing. AuthorID of zero
// means no author scoping (superuser view).
type AdminFilter struct {
	Search   string
	Status   string
	AuthorID uint
	Page     int
	PerPage  int
}

// PostListResult aggregates paginated list data and counters.
type PostListResult struct {
	Posts          []db.Post
	Total          int64
	PublishedCount int64
	DraftCount     int64
	TotalPages     int
	Page           int
	PerPage        int
	HasPrev        bool
	HasNext        bool
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title           string
	Slug            string
	Content         string
	MetaDescription string
	FeaturedImage   string
	Status          string
	CategoryID      *uint
	TagIDs          []uint
	UserID          uint
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// ListPublished provides the public view of posts: published only, newest
// publication first, filtered by optional search/category/tag criteria.
// A page past the last valid page clamps to the last page instead of failing.
func (s *PostService) ListPublished(filter PublicFilter) (*PostListResult, error) {
	result := &PostListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, PublicPerPage),
	}

	countQuery := s.applyPublicFilters(s.db.Model(&db.Post{}), filter)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	if result.Page > result.TotalPages {
		result.Page = result.TotalPages
	}

	offset := (result.Page - 1) * result.PerPage

	dataQuery := s.applyPublicFilters(
		s.db.Model(&db.Post{}).
			Preload("Tags").
			Preload("Category").
			Preload("User"),
		filter,
	)

	if err := dataQuery.
		Order("posts.published_at desc, posts.id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Posts).Error; err != nil {
		return nil, err
	}

	result.HasPrev = result.Page > 1
	result.HasNext = result.Page < result.TotalPages
	return result, nil
}

// GetPublishedBySlug fetches a published post by slug and counts the view.
// Drafts and unknown slugs both report ErrPostNotFound.
func (s *PostService) GetPublishedBySlug(postSlug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.
		Preload("Tags").
		Preload("Category").
		Preload("User").
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order asc, uploaded_at asc")
		}).
		Where("slug = ? AND status = ?", postSlug, db.PostStatusPublished).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	// 浏览计数在数据库内自增，并发请求不会相互覆盖；
	// UpdateColumn 只写 views 一列，不触碰 updated_at。
	if err := s.db.Model(&db.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		return nil, err
	}
	post.Views++

	return &post, nil
}

// Related returns up to limit other published posts, preferring the same
// category when the post has one.
func (s *PostService) Related(post *db.Post, limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = RelatedPostLimit
	}

	query := s.db.
		Where("status = ?", db.PostStatusPublished).
		Where("id <> ?", post.ID)

	if post.CategoryID != nil {
		query = query.Where("category_id = ?", *post.CategoryID)
	}

	var related []db.Post
	if err := query.
		Order("published_at desc, id desc").
		Limit(limit).
		Find(&related).Error; err != nil {
		return nil, err
	}
	return related, nil
}

// List provides paginated posts for the admin surface with status counters.
func (s *PostService) List(filter AdminFilter) (*PostListResult, error) {
	result := &PostListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 10),
	}

	countQuery := s.applyAdminFilters(s.db.Model(&db.Post{}), filter, true)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	if result.Page > result.TotalPages {
		result.Page = result.TotalPages
	}

	offset := (result.Page - 1) * result.PerPage

	dataQuery := s.applyAdminFilters(
		s.db.Model(&db.Post{}).
			Preload("Tags").
			Preload("Category").
			Preload("User"),
		filter, true,
	)

	if err := dataQuery.
		Order("posts.created_at desc, posts.id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Posts).Error; err != nil {
		return nil, err
	}

	counterBase := filter
	counterBase.Status = ""

	publishedQuery := s.applyAdminFilters(s.db.Model(&db.Post{}), counterBase, false)
	if err := publishedQuery.
		Where("posts.status = ?", db.PostStatusPublished).
		Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}

	draftQuery := s.applyAdminFilters(s.db.Model(&db.Post{}), counterBase, false)
	if err := draftQuery.
		Where("posts.status = ?", db.PostStatusDraft).
		Count(&result.DraftCount).Error; err != nil {
		return nil, err
	}

	result.HasPrev = result.Page > 1
	result.HasNext = result.Page < result.TotalPages
	return result, nil
}

// Get fetches a post by id with associations preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.
		Preload("Tags").
		Preload("Category").
		Preload("User").
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order asc, uploaded_at asc")
		}).
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a post and associates tags in a transaction. The slug is
// derived from the title once, with a numeric suffix on collision.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrPostTitleRequired
	}

	status, err := normalizePostStatus(input.Status)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSpace(input.Slug)
	if base == "" {
		base = slug.Generate(title)
	}
	resolved, err := uniqueSlug(s.db, "posts", base, 0)
	if err != nil {
		return nil, err
	}

	post := db.Post{
		Title:           title,
		Slug:            resolved,
		Content:         input.Content,
		MetaDescription: strings.TrimSpace(input.MetaDescription),
		FeaturedImage:   strings.TrimSpace(input.FeaturedImage),
		Status:          status,
		UserID:          input.UserID,
		CategoryID:      input.CategoryID,
		ReadingTime:     ReadingTime(input.Content),
		PublishedAt:     time.Now(),
	}

	return s.saveWithTags(&post, input.TagIDs)
}

// Update applies updates to an existing post. The slug is never re-derived
// from title edits; an explicitly supplied different slug is honored after
// collision resolution.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrPostTitleRequired
	}

	status, err := normalizePostStatus(input.Status)
	if err != nil {
		return nil, err
	}

	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	existing.Title = title
	existing.Content = input.Content
	existing.MetaDescription = strings.TrimSpace(input.MetaDescription)
	existing.FeaturedImage = strings.TrimSpace(input.FeaturedImage)
	existing.Status = status
	existing.CategoryID = input.CategoryID
	existing.ReadingTime = ReadingTime(input.Content)

	if requested := strings.TrimSpace(input.Slug); requested != "" && requested != existing.Slug {
		resolved, err := uniqueSlug(s.db, "posts", requested, id)
		if err != nil {
			return nil, err
		}
		existing.Slug = resolved
	}

	return s.saveWithTags(&existing, input.TagIDs)
}

// Delete removes a post together with its owned images and tag associations.
func (s *PostService) Delete(id uint) error {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.PostImage{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

func (s *PostService) saveWithTags(post *db.Post, tagIDs []uint) (*db.Post, error) {
	return post, s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}

		var tags []db.Tag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}

			if len(tags) != len(tagIDs) {
				return ErrTagNotFound
			}
		}

		if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
			return err
		}

		return tx.Preload("Tags").Preload("Category").First(post, post.ID).Error
	})
}

func (s *PostService) applyPublicFilters(query *gorm.DB, filter PublicFilter) *gorm.DB {
	query = query.Where("posts.status = ?", db.PostStatusPublished)

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("(posts.title LIKE ? OR posts.content LIKE ?)", like, like)
	}

	if categorySlug := strings.TrimSpace(filter.CategorySlug); categorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.slug = ?", categorySlug)
	}

	if tagSlug := strings.TrimSpace(filter.TagSlug); tagSlug != "" {
		subQuery := s.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", tagSlug)

		query = query.Where("posts.id IN (?)", subQuery)
	}

	return query
}

func (s *PostService) applyAdminFilters(query *gorm.DB, filter AdminFilter, includeStatus bool) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("(posts.title LIKE ? OR posts.content LIKE ?)", like, like)
	}

	if includeStatus && filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}

	if filter.AuthorID != 0 {
		query = query.Where("posts.user_id = ?", filter.AuthorID)
	}

	return query
}

func normalizePostStatus(status string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return db.PostStatusDraft, nil
	}
	if normalized != db.PostStatusDraft && normalized != db.PostStatusPublished {
		return "", ErrPostStatusInvalid
	}
	return normalized, nil
}
