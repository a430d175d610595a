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

func setupTagServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:tag-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

func TestTagService_CreateAndDuplicate(t *testing.T) {
	gdb := setupTagServiceTestDB(t)
	svc := NewTagService(gdb)

	tag, err := svc.Create(TagInput{Name: "Web 开发"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if tag.Slug != "web" {
		t.Fatalf("expected web, got %s", tag.Slug)
	}

	if _, err := svc.Create(TagInput{Name: "Web 开发"}); !errors.Is(err, ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}
}

func TestTagService_DeleteKeepsPosts(t *testing.T) {
	gdb := setupTagServiceTestDB(t)
	svc := NewTagService(gdb)

	user := db.User{Username: "author", Password: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	tag, err := svc.Create(TagInput{Name: "Go"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	posts := NewPostService(gdb)
	post, err := posts.Create(PostInput{
		Title: "打了标签的文章", Content: "正文",
		Status: db.PostStatusPublished, UserID: user.ID, TagIDs: []uint{tag.ID},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	// 被引用的标签允许删除，仅清除关联
	if err := svc.Delete(tag.ID); err != nil {
		t.Fatalf("delete tag: %v", err)
	}

	var linkCount int64
	gdb.Table("post_tags").Where("tag_id = ?", tag.ID).Count(&linkCount)
	if linkCount != 0 {
		t.Fatalf("expected associations cleared, got %d", linkCount)
	}

	var reloaded db.Post
	if err := gdb.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("post must survive tag deletion: %v", err)
	}
	if reloaded.Status != db.PostStatusPublished {
		t.Fatalf("unexpected post status %s", reloaded.Status)
	}

	if err := svc.Delete(tag.ID); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound on second delete, got %v", err)
	}
}

func TestTagService_PublishedCount(t *testing.T) {
	gdb := setupTagServiceTestDB(t)
	svc := NewTagService(gdb)

	user := db.User{Username: "counter", Password: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	tag, err := svc.Create(TagInput{Name: "Go"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	posts := NewPostService(gdb)
	if _, err := posts.Create(PostInput{Title: "发布的", Content: "正文", Status: db.PostStatusPublished, UserID: user.ID, TagIDs: []uint{tag.ID}}); err != nil {
		t.Fatalf("create published: %v", err)
	}
	if _, err := posts.Create(PostInput{Title: "草稿的", Content: "正文", UserID: user.ID, TagIDs: []uint{tag.ID}}); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	count, err := svc.PublishedCount(tag.ID)
	if err != nil {
		t.Fatalf("published count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 published post, got %d", count)
	}
}

func TestTagService_GetBySlug(t *testing.T) {
	gdb := setupTagServiceTestDB(t)
	svc := NewTagService(gdb)

	created, err := svc.Create(TagInput{Name: "Databases"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	found, err := svc.GetBySlug("databases")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected tag %d, got %d", created.ID, found.ID)
	}

	if _, err := svc.GetBySlug("nope"); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}
