package handler

import (
	"errors"
	"net/http"

	"github.com/farout/internal/db"
	"github.com/farout/internal/service"
	"github.com/gin-gonic/gin"
)

type postImageRequest struct {
	ImageURL  string `json:"imageUrl" binding:"required"`
	Caption   string `json:"caption"`
	AltText   string `json:"altText"`
	SortOrder int    `json:"sortOrder"`
}

type postImageReorderRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ownedPost 加载文章并校验当前用户的管理权限。
func (a *API) ownedPost(c *gin.Context, postID uint) (*db.Post, bool) {
	user, ok := a.currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return nil, false
	}

	post, err := a.posts.Get(postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, "获取文章失败")
		return nil, false
	}

	if !user.Superuser && post.UserID != user.ID {
		respondError(c, http.StatusForbidden, "无权管理该文章的插图")
		return nil, false
	}

	return post, true
}

// GetPostImages 获取文章的插图列表
func (a *API) GetPostImages(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	if _, ok := a.ownedPost(c, postID); !ok {
		return
	}

	images, err := a.images.ListForPost(postID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取插图列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

// CreatePostImage 为文章添加插图
func (a *API) CreatePostImage(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	if _, ok := a.ownedPost(c, postID); !ok {
		return
	}

	var req postImageRequest
	if !bindJSON(c, &req, "插图地址不能为空") {
		return
	}

	image, err := a.images.Create(service.PostImageInput{
		PostID:    postID,
		ImageURL:  req.ImageURL,
		Caption:   req.Caption,
		AltText:   req.AltText,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostImageMissing):
			respondError(c, http.StatusBadRequest, "插图地址不能为空")
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		default:
			respondError(c, http.StatusInternalServerError, "添加插图失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "插图添加成功", "image": image})
}

// UpdatePostImage 更新插图
func (a *API) UpdatePostImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的插图ID")
		return
	}

	image, err := a.images.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostImageNotFound) {
			respondError(c, http.StatusNotFound, "插图不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取插图失败")
		return
	}

	if _, ok := a.ownedPost(c, image.PostID); !ok {
		return
	}

	var req postImageRequest
	if !bindJSON(c, &req, "插图地址不能为空") {
		return
	}

	updated, err := a.images.Update(id, service.PostImageInput{
		ImageURL:  req.ImageURL,
		Caption:   req.Caption,
		AltText:   req.AltText,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostImageMissing):
			respondError(c, http.StatusBadRequest, "插图地址不能为空")
		case errors.Is(err, service.ErrPostImageNotFound):
			respondError(c, http.StatusNotFound, "插图不存在")
		default:
			respondError(c, http.StatusInternalServerError, "更新插图失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "插图更新成功", "image": updated})
}

// DeletePostImage 删除插图
func (a *API) DeletePostImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的插图ID")
		return
	}

	image, err := a.images.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostImageNotFound) {
			respondError(c, http.StatusNotFound, "插图不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取插图失败")
		return
	}

	if _, ok := a.ownedPost(c, image.PostID); !ok {
		return
	}

	if err := a.images.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除插图失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "插图删除成功"})
}

// ReorderPostImages 调整文章插图的展示顺序
func (a *API) ReorderPostImages(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	if _, ok := a.ownedPost(c, postID); !ok {
		return
	}

	var req postImageReorderRequest
	if !bindJSON(c, &req, "无效的排序数据") {
		return
	}

	if err := a.images.Reorder(postID, req.IDs); err != nil {
		switch {
		case errors.Is(err, service.ErrPostImageOrder):
			respondError(c, http.StatusBadRequest, "无效的排序数据")
		case errors.Is(err, service.ErrPostImageNotFound):
			respondError(c, http.StatusNotFound, "插图不存在")
		default:
			respondError(c, http.StatusInternalServerError, "调整插图顺序失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "插图顺序已更新"})
}
