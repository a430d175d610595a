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

func setupCategoryServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:category-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Category{}, &db.Tag{}, &db.Post{}, &db.PostImage{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func TestCategoryService_CreateDerivesSlug(t *testing.T) {
	gdb := setupCategoryServiceTestDB(t)
	svc := NewCategoryService(gdb)

	category, err := svc.Create(CategoryInput{Name: "Web Development", Description: "前端与后端"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if category.Slug != "web-development" {
		t.Fatalf("expected web-development, got %s", category.Slug)
	}

	if _, err := svc.Create(CategoryInput{Name: "Web Development"}); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}

	// slug 冲突追加后缀
	other, err := svc.Create(CategoryInput{Name: "Web Dev Weekly", Slug: "web-development"})
	if err != nil {
		t.Fatalf("create colliding category: %v", err)
	}
	if other.Slug != "web-development-2" {
		t.Fatalf("expected web-development-2, got %s", other.Slug)
	}
}

func TestCategoryService_GetBySlug(t *testing.T) {
	gdb := setupCategoryServiceTestDB(t)
	svc := NewCategoryService(gdb)

	created, err := svc.Create(CategoryInput{Name: "技术"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	found, err := svc.GetBySlug(created.Slug)
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected category %d, got %d", created.ID, found.ID)
	}

	if _, err := svc.GetBySlug("missing"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryService_DeleteClearsPostReferences(t *testing.T) {
	gdb := setupCategoryServiceTestDB(t)
	svc := NewCategoryService(gdb)

	user := db.User{Username: "author", Password: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	category, err := svc.Create(CategoryInput{Name: "将删除"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	posts := NewPostService(gdb)
	post, err := posts.Create(PostInput{
		Title: "挂在分类下", Content: "正文",
		Status: db.PostStatusPublished, UserID: user.ID, CategoryID: &category.ID,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if err := svc.Delete(category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	var reloaded db.Post
	if err := gdb.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if reloaded.CategoryID != nil {
		t.Fatalf("expected category reference cleared, got %v", *reloaded.CategoryID)
	}
	if reloaded.Status != db.PostStatusPublished {
		t.Fatalf("post must survive category deletion, status=%s", reloaded.Status)
	}

	if err := svc.Delete(category.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound on second delete, got %v", err)
	}
}

func TestCategoryService_UpdateRenames(t *testing.T) {
	gdb := setupCategoryServiceTestDB(t)
	svc := NewCategoryService(gdb)

	category, err := svc.Create(CategoryInput{Name: "Old Name"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	// 未显式提供 slug 时按新名称重算
	updated, err := svc.Update(category.ID, CategoryInput{Name: "New Name"})
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if updated.Name != "New Name" || updated.Slug != "new-name" {
		t.Fatalf("unexpected update result: name=%s slug=%s", updated.Name, updated.Slug)
	}

	other, err := svc.Create(CategoryInput{Name: "Taken"})
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	if _, err := svc.Update(category.ID, CategoryInput{Name: other.Name}); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
}
