package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/farout/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostImageServiceTestDB(t *testing.T) (*gorm.DB, *db.Post) {
	t.Helper()
	dsn := fmt.Sprintf("file:post-image-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Category{}, &db.Tag{}, &db.Post{}, &db.PostImage{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	user := db.User{Username: "fotograf", Password: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	post, err := NewPostService(gdb).Create(PostInput{
		Title: "Photo Essay", Content: "正文", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return gdb, post
}

func TestPostImageService_AltTextFallback(t *testing.T) {
	gdb, post := setupPostImageServiceTestDB(t)
	svc := NewPostImageService(gdb)

	withCaption, err := svc.Create(PostImageInput{
		PostID:   post.ID,
		ImageURL: "/static/uploads/a.jpg",
		Caption:  "山间晨雾",
	})
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	if withCaption.AltText != "山间晨雾" {
		t.Fatalf("expected caption fallback, got %s", withCaption.AltText)
	}

	bare, err := svc.Create(PostImageInput{
		PostID:   post.ID,
		ImageURL: "/static/uploads/b.jpg",
	})
	if err != nil {
		t.Fatalf("create bare image: %v", err)
	}
	if bare.AltText != "Image for Photo Essay" {
		t.Fatalf("expected title fallback, got %s", bare.AltText)
	}

	explicit, err := svc.Create(PostImageInput{
		PostID:   post.ID,
		ImageURL: "/static/uploads/c.jpg",
		Caption:  "说明",
		AltText:  "自定义替代文本",
	})
	if err != nil {
		t.Fatalf("create explicit image: %v", err)
	}
	if explicit.AltText != "自定义替代文本" {
		t.Fatalf("explicit alt text must win, got %s", explicit.AltText)
	}
}

func TestPostImageService_CreateValidation(t *testing.T) {
	gdb, post := setupPostImageServiceTestDB(t)
	svc := NewPostImageService(gdb)

	if _, err := svc.Create(PostImageInput{PostID: post.ID}); !errors.Is(err, ErrPostImageMissing) {
		t.Fatalf("expected ErrPostImageMissing, got %v", err)
	}
	if _, err := svc.Create(PostImageInput{PostID: 999, ImageURL: "/x.jpg"}); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostImageService_SortOrderAssignment(t *testing.T) {
	gdb, post := setupPostImageServiceTestDB(t)
	svc := NewPostImageService(gdb)

	first, err := svc.Create(PostImageInput{PostID: post.ID, ImageURL: "/1.jpg"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(PostImageInput{PostID: post.ID, ImageURL: "/2.jpg"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if first.SortOrder >= second.SortOrder {
		t.Fatalf("expected ascending sort orders, got %d then %d", first.SortOrder, second.SortOrder)
	}

	images, err := svc.ListForPost(post.ID)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	if len(images) != 2 || images[0].ID != first.ID {
		t.Fatalf("unexpected listing order: %+v", images)
	}
}

func TestPostImageService_UpdateHonorsExplicitZeroOrder(t *testing.T) {
	gdb, post := setupPostImageServiceTestDB(t)
	svc := NewPostImageService(gdb)

	first, err := svc.Create(PostImageInput{PostID: post.ID, ImageURL: "/1.jpg"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(PostImageInput{PostID: post.ID, ImageURL: "/2.jpg"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	// 更新时 0 是显式位置，不触发自动排序
	moved, err := svc.Update(second.ID, PostImageInput{ImageURL: "/2.jpg", SortOrder: 0})
	if err != nil {
		t.Fatalf("update image: %v", err)
	}
	if moved.SortOrder != 0 {
		t.Fatalf("expected sort order 0, got %d", moved.SortOrder)
	}

	images, err := svc.ListForPost(post.ID)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	if images[0].ID != second.ID || images[1].ID != first.ID {
		t.Fatalf("expected the zero-ordered image first, got %+v", images)
	}
}

func TestPostImageService_Reorder(t *testing.T) {
	gdb, post := setupPostImageServiceTestDB(t)
	svc := NewPostImageService(gdb)

	var ids []uint
	for i := 1; i <= 3; i++ {
		image, err := svc.Create(PostImageInput{PostID: post.ID, ImageURL: fmt.Sprintf("/%d.jpg", i)})
		if err != nil {
			t.Fatalf("create image %d: %v", i, err)
		}
		ids = append(ids, image.ID)
	}

	// 倒序重排
	if err := svc.Reorder(post.ID, []uint{ids[2], ids[1], ids[0]}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	images, err := svc.ListForPost(post.ID)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	if images[0].ID != ids[2] || images[2].ID != ids[0] {
		t.Fatalf("reorder not applied: %+v", images)
	}

	if err := svc.Reorder(post.ID, []uint{ids[0], ids[0]}); !errors.Is(err, ErrPostImageOrder) {
		t.Fatalf("expected ErrPostImageOrder for duplicates, got %v", err)
	}
	if err := svc.Reorder(post.ID, []uint{999}); !errors.Is(err, ErrPostImageNotFound) {
		t.Fatalf("expected ErrPostImageNotFound for foreign id, got %v", err)
	}
}
