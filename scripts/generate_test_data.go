package main

import (
	"fmt"
	"log"

	"github.com/farout/internal/config"
	"github.com/farout/internal/db"
	"github.com/farout/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 测试数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	// 创建测试用户
	createTestUsers()

	// 创建测试分类
	createTestCategories()

	// 创建测试标签
	createTestTags()

	// 创建测试文章
	createTestPosts()

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
	fmt.Println("分类: 技术、生活、随笔")
	fmt.Println("标签: Go、Web开发、数据库、教程、思考")
}

// 创建测试用户
func createTestUsers() {
	// 检查是否已存在用户
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	// 创建管理员用户
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := db.User{
		Username:  "admin",
		Password:  string(hashedPassword),
		Superuser: true,
	}
	db.DB.Create(&admin)

	// 创建普通作者
	hashedPassword2, _ := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	user := db.User{
		Username: "testuser",
		Password: string(hashedPassword2),
	}
	db.DB.Create(&user)

	fmt.Println("✅ 测试用户创建完成")
}

// 创建测试分类
func createTestCategories() {
	var count int64
	db.DB.Model(&db.Category{}).Count(&count)
	if count > 0 {
		fmt.Println("分类已存在，跳过创建")
		return
	}

	categories := service.NewCategoryService(db.DB)
	seeds := []struct {
		name        string
		description string
	}{
		{"技术", "工程实践与技术方案"},
		{"生活", "日常记录与生活感悟"},
		{"随笔", "碎片化的想法与思考"},
	}
	for _, item := range seeds {
		if _, err := categories.Create(service.CategoryInput{Name: item.name, Description: item.description}); err != nil {
			log.Printf("创建分类 %s 失败: %v", item.name, err)
		}
	}

	fmt.Println("✅ 测试分类创建完成")
}

// 创建测试标签
func createTestTags() {
	var count int64
	db.DB.Model(&db.Tag{}).Count(&count)
	if count > 0 {
		fmt.Println("标签已存在，跳过创建")
		return
	}

	tags := service.NewTagService(db.DB)
	for _, name := range []string{"Go", "Web开发", "数据库", "教程", "思考"} {
		if _, err := tags.Create(service.TagInput{Name: name}); err != nil {
			log.Printf("创建标签 %s 失败: %v", name, err)
		}
	}

	fmt.Println("✅ 测试标签创建完成")
}

// 创建测试文章
func createTestPosts() {
	// 清理旧文章及关联
	db.DB.Exec("DELETE FROM post_images")
	db.DB.Exec("DELETE FROM post_tags")
	db.DB.Exec("DELETE FROM posts")

	// 获取管理员用户
	var admin db.User
	db.DB.Where("username = ?", "admin").First(&admin)

	// 分类与标签的名称映射
	var allCategories []db.Category
	db.DB.Find(&allCategories)
	categoryMap := make(map[string]db.Category)
	for _, category := range allCategories {
		categoryMap[category.Name] = category
	}

	var allTags []db.Tag
	db.DB.Find(&allTags)
	tagMap := make(map[string]db.Tag)
	for _, tag := range allTags {
		tagMap[tag.Name] = tag
	}

	posts := service.NewPostService(db.DB)
	images := service.NewPostImageService(db.DB)

	contents := []struct {
		title    string
		content  string
		meta     string
		category string
		tags     []string
		cover    string
	}{
		{
			title:    "使用Go语言构建高性能Web服务",
			content:  "Go语言因其出色的并发性能和简洁的语法，成为构建高性能Web服务的理想选择。本文将分享如何使用Go语言构建Web服务，包括框架选择、性能优化和实际案例分析。通过合理的架构设计，我们的系统能够轻松处理数千并发请求。",
			meta:     "探索如何使用Go语言构建高性能的Web服务，包括框架选择、性能优化和实际案例分析。",
			category: "技术",
			tags:     []string{"Go", "Web开发"},
			cover:    "https://images.unsplash.com/photo-1523475472560-d2df97ec485c?auto=format&fit=crop&w=1600&q=80",
		},
		{
			title:    "SQLite数据库优化实践",
			content:  "SQLite作为轻量级数据库，在很多场景下都有出色表现。本文分享SQLite数据库的优化实践经验，包括索引优化、查询优化、连接池配置和事务处理等实用技巧。",
			meta:     "分享SQLite数据库的优化实践经验，包括索引优化、查询优化和连接池配置等实用技巧。",
			category: "技术",
			tags:     []string{"数据库", "教程"},
			cover:    "https://images.unsplash.com/photo-1518770660439-4636190af475?auto=format&fit=crop&w=1600&q=80",
		},
		{
			title:    "GORM使用技巧与最佳实践",
			content:  "GORM是Go语言中最流行的ORM库之一。本文总结了GORM的常用用法、性能优化建议以及在实际项目中的最佳实践，帮助开发者更高效地进行数据库操作。",
			meta:     "总结GORM的常用用法和性能优化建议，助力高效数据库开发。",
			category: "技术",
			tags:     []string{"Go", "数据库"},
			cover:    "https://images.unsplash.com/photo-1461749280684-dccba630e2f6?auto=format&fit=crop&w=1600&q=80",
		},
		{
			title:    "个人知识管理系统的设计与实现",
			content:  "在信息爆炸的时代，如何有效管理个人知识成为一个重要课题。本文分享个人知识管理系统的设计理念、技术选型和实现过程，包括系统架构、功能特性和技术选型等关键要素。",
			meta:     "分享个人知识管理系统的设计理念、技术选型和实现过程。",
			category: "随笔",
			tags:     []string{"思考"},
			cover:    "https://images.unsplash.com/photo-1523473827534-86c23bcb06b1?auto=format&fit=crop&w=1350&q=80",
		},
		{
			title:    "一次长途骑行的记录",
			content:  "周末沿江骑行一百二十公里，从清晨到日落。路上遇到的风景、补给站的闲聊、最后十公里的逆风，都值得记下来。骑行教会人的是节奏感：匀速前进比间歇冲刺走得更远。",
			meta:     "一次一百二十公里长途骑行的完整记录与感悟。",
			category: "生活",
			tags:     []string{"思考"},
			cover:    "https://images.unsplash.com/photo-1506744038136-46273834b3fb?auto=format&fit=crop&w=1600&q=80",
		},
	}

	for _, item := range contents {
		input := service.PostInput{
			Title:           item.title,
			Content:         item.content,
			MetaDescription: item.meta,
			FeaturedImage:   item.cover,
			Status:          db.PostStatusPublished,
			UserID:          admin.ID,
		}
		if category, ok := categoryMap[item.category]; ok {
			input.CategoryID = &category.ID
		}
		for _, tagName := range item.tags {
			if tag, ok := tagMap[tagName]; ok {
				input.TagIDs = append(input.TagIDs, tag.ID)
			}
		}

		post, err := posts.Create(input)
		if err != nil {
			log.Printf("创建文章 %s 失败: %v", item.title, err)
			continue
		}

		// 为每篇文章附一张配图
		if _, err := images.Create(service.PostImageInput{PostID: post.ID, ImageURL: item.cover, Caption: "封面插图"}); err != nil {
			log.Printf("创建文章图片失败: %v", err)
		}
	}

	fmt.Println("✅ 测试文章创建完成")
}
