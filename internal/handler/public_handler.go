package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/farout/internal/db"
	"github.com/farout/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type categoryStat struct {
	Name  string
	Slug  string
	Count int
}

type tagStat struct {
	Name  string
	Slug  string
	Count int
}

// postCard 是列表页单篇文章的渲染数据
type postCard struct {
	Post    db.Post
	Excerpt string
}

// ShowHome renders the public post list with search, category and tag filters.
func (a *API) ShowHome(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	categorySlug := strings.TrimSpace(c.Query("category"))
	tagSlug := strings.TrimSpace(c.Query("tag"))
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	filter := service.PublicFilter{
		Search:       search,
		CategorySlug: categorySlug,
		TagSlug:      tagSlug,
		Page:         page,
		PerPage:      service.PublicPerPage,
	}

	posts, err := a.posts.ListPublished(filter)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "home.html", gin.H{
			"title": "首页",
			"error": "获取文章失败",
			"year":  time.Now().Year(),
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":           "首页",
		"search":          search,
		"currentCategory": categorySlug,
		"currentTag":      tagSlug,
		"categories":      a.buildCategoryStats(),
		"tags":            a.buildTagStats(),
		"posts":           buildPostCards(posts.Posts),
		"page":            posts.Page,
		"totalPages":      posts.TotalPages,
		"hasPrev":         posts.HasPrev,
		"hasNext":         posts.HasNext,
		"queryParams":     buildQueryParams(search, categorySlug, tagSlug),
		"year":            time.Now().Year(),
	})
}

// ShowPostDetail renders a published post with markdown content, counting the
// view and attaching up to three related posts.
func (a *API) ShowPostDetail(c *gin.Context) {
	post, err := a.posts.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	related, relatedErr := a.posts.Related(post, service.RelatedPostLimit)
	if relatedErr != nil {
		c.Error(relatedErr) // 不中断渲染，但记录错误
		related = nil
	}

	htmlContent, err := renderMarkdown(post.Content)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "post_detail.html", gin.H{
			"title": "文章详情",
			"error": "渲染内容失败",
			"year":  time.Now().Year(),
		})
		return
	}

	metaDescription := post.MetaDescription
	if metaDescription == "" {
		metaDescription = service.Excerpt(post.Content, 160)
	}

	a.renderHTML(c, http.StatusOK, "post_detail.html", gin.H{
		"title":           post.Title,
		"post":            post,
		"content":         htmlContent,
		"metaDescription": metaDescription,
		"related":         buildPostCards(related),
		"year":            time.Now().Year(),
	})
}

// ShowCategoryDetail lists published posts for a category slug.
func (a *API) ShowCategoryDetail(c *gin.Context) {
	category, err := a.categories.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	posts, err := a.posts.ListPublished(service.PublicFilter{
		CategorySlug: category.Slug,
		Page:         page,
		PerPage:      service.PublicPerPage,
	})
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	a.renderHTML(c, http.StatusOK, "category_detail.html", gin.H{
		"title":      category.Name,
		"category":   category,
		"posts":      buildPostCards(posts.Posts),
		"page":       posts.Page,
		"totalPages": posts.TotalPages,
		"hasPrev":    posts.HasPrev,
		"hasNext":    posts.HasNext,
		"year":       time.Now().Year(),
	})
}

// ShowTagDetail lists published posts for a tag slug.
func (a *API) ShowTagDetail(c *gin.Context) {
	tag, err := a.tags.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	posts, err := a.posts.ListPublished(service.PublicFilter{
		TagSlug: tag.Slug,
		Page:    page,
		PerPage: service.PublicPerPage,
	})
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	a.renderHTML(c, http.StatusOK, "tag_detail.html", gin.H{
		"title":      tag.Name,
		"tag":        tag,
		"posts":      buildPostCards(posts.Posts),
		"page":       posts.Page,
		"totalPages": posts.TotalPages,
		"hasPrev":    posts.HasPrev,
		"hasNext":    posts.HasNext,
		"year":       time.Now().Year(),
	})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

func buildPostCards(posts []db.Post) []postCard {
	cards := make([]postCard, 0, len(posts))
	for _, post := range posts {
		cards = append(cards, postCard{
			Post:    post,
			Excerpt: service.Excerpt(post.Content, service.DefaultExcerptLength),
		})
	}
	return cards
}

func (a *API) buildCategoryStats() []categoryStat {
	categories, err := a.categories.ListWithPosts()
	if err != nil {
		return nil
	}

	stats := make([]categoryStat, 0, len(categories))
	for _, category := range categories {
		count := 0
		for _, post := range category.Posts {
			if post.Status == db.PostStatusPublished {
				count++
			}
		}
		stats = append(stats, categoryStat{Name: category.Name, Slug: category.Slug, Count: count})
	}

	return stats
}

func (a *API) buildTagStats() []tagStat {
	tags, err := a.tags.ListWithPosts()
	if err != nil {
		return nil
	}

	stats := make([]tagStat, 0, len(tags))
	for _, tag := range tags {
		count := 0
		for _, post := range tag.Posts {
			if post.Status == db.PostStatusPublished {
				count++
			}
		}
		stats = append(stats, tagStat{Name: tag.Name, Slug: tag.Slug, Count: count})
	}

	return stats
}

func buildQueryParams(search, categorySlug, tagSlug string) string {
	values := url.Values{}
	if search != "" {
		values.Set("search", search)
	}
	if categorySlug != "" {
		values.Set("category", categorySlug)
	}
	if tagSlug != "" {
		values.Set("tag", tagSlug)
	}
	encoded := values.Encode()
	if encoded == "" {
		return ""
	}
	return "&" + encoded
}
