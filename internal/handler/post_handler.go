package handler

import (
	"errors"
	"net/http"

	"github.com/farout/internal/service"
	"github.com/gin-gonic/gin"
)

type postRequest struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Content         string `json:"content"`
	MetaDescription string `json:"metaDescription"`
	FeaturedImage   string `json:"featuredImage"`
	Status          string `json:"status"`
	CategoryID      *uint  `json:"categoryId"`
	TagIDs          []uint `json:"tagIds"`
}

// GetPosts 获取文章列表，非超级管理员仅能看到自己的文章
func (a *API) GetPosts(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	filter := service.AdminFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		AuthorID: authorScope(user),
		Page:     parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:  parsePositiveInt(c.DefaultQuery("perPage", "10"), 10),
	}

	result, err := a.posts.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取文章列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":          result.Posts,
		"total":          result.Total,
		"publishedCount": result.PublishedCount,
		"draftCount":     result.DraftCount,
		"page":           result.Page,
		"totalPages":     result.TotalPages,
	})
}

// GetPost 获取单篇文章
func (a *API) GetPost(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取文章失败")
		return
	}

	if !user.Superuser && post.UserID != user.ID {
		respondError(c, http.StatusForbidden, "无权访问该文章")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost 创建新文章，作者自动指定为当前登录用户
func (a *API) CreatePost(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req postRequest
	if !bindJSON(c, &req, "无效的文章数据") {
		return
	}

	post, err := a.posts.Create(service.PostInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		MetaDescription: req.MetaDescription,
		FeaturedImage:   req.FeaturedImage,
		Status:          req.Status,
		CategoryID:      req.CategoryID,
		TagIDs:          req.TagIDs,
		UserID:          user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostTitleRequired):
			respondError(c, http.StatusBadRequest, "文章标题不能为空")
		case errors.Is(err, service.ErrPostStatusInvalid):
			respondError(c, http.StatusBadRequest, "无效的文章状态")
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusBadRequest, "包含不存在的标签")
		default:
			respondError(c, http.StatusInternalServerError, "创建文章失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "文章创建成功", "post": post})
}

// UpdatePost 更新文章
func (a *API) UpdatePost(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	existing, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取文章失败")
		return
	}

	if !user.Superuser && existing.UserID != user.ID {
		respondError(c, http.StatusForbidden, "无权修改该文章")
		return
	}

	var req postRequest
	if !bindJSON(c, &req, "无效的文章数据") {
		return
	}

	post, err := a.posts.Update(id, service.PostInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		MetaDescription: req.MetaDescription,
		FeaturedImage:   req.FeaturedImage,
		Status:          req.Status,
		CategoryID:      req.CategoryID,
		TagIDs:          req.TagIDs,
		UserID:          existing.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostTitleRequired):
			respondError(c, http.StatusBadRequest, "文章标题不能为空")
		case errors.Is(err, service.ErrPostStatusInvalid):
			respondError(c, http.StatusBadRequest, "无效的文章状态")
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusBadRequest, "包含不存在的标签")
		default:
			respondError(c, http.StatusInternalServerError, "更新文章失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "文章更新成功", "post": post})
}

// DeletePost 删除文章及其所属插图
func (a *API) DeletePost(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	existing, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取文章失败")
		return
	}

	if !user.Superuser && existing.UserID != user.ID {
		respondError(c, http.StatusForbidden, "无权删除该文章")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除文章失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "文章删除成功"})
}
