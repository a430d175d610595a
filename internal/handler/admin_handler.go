package handler

import (
	"net/http"
	"time"

	"github.com/farout/internal/db"
	"github.com/farout/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const sessionUserIDKey = "user_id"

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "管理员登录",
	})
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	// 查找用户
	var user db.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{
			"title": "管理员登录",
			"error": "用户名或密码错误",
		})
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{
			"title": "管理员登录",
			"error": "用户名或密码错误",
		})
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"title": "管理员登录",
			"error": "会话保存失败",
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/admin/login")
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(sessionUserIDKey)
		if userID == nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUser 根据会话加载当前管理员。
func (a *API) currentUser(c *gin.Context) (*db.User, bool) {
	session := sessions.Default(c)
	raw := session.Get(sessionUserIDKey)
	userID, ok := raw.(uint)
	if !ok {
		return nil, false
	}

	var user db.User
	if err := a.db.First(&user, userID).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// authorScope 返回当前用户的文章可见范围：超级管理员可见全部。
func authorScope(user *db.User) uint {
	if user.Superuser {
		return 0
	}
	return user.ID
}

// ShowDashboard 渲染后台主面板
func (a *API) ShowDashboard(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}

	posts, err := a.posts.List(service.AdminFilter{AuthorID: authorScope(user), PerPage: 1})
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	var categoryCount, tagCount int64
	a.db.Model(&db.Category{}).Count(&categoryCount)
	a.db.Model(&db.Tag{}).Count(&tagCount)

	a.renderHTML(c, http.StatusOK, "dashboard.html", gin.H{
		"title":          "管理面板",
		"username":       user.Username,
		"postCount":      posts.Total,
		"publishedCount": posts.PublishedCount,
		"draftCount":     posts.DraftCount,
		"categoryCount":  categoryCount,
		"tagCount":       tagCount,
		"year":           time.Now().Year(),
	})
}

// ShowPostList 渲染后台文章列表页
func (a *API) ShowPostList(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}

	filter := service.AdminFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		AuthorID: authorScope(user),
		Page:     parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:  10,
	}

	posts, err := a.posts.List(filter)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_list.html", gin.H{
		"title":          "文章管理",
		"username":       user.Username,
		"posts":          posts.Posts,
		"total":          posts.Total,
		"publishedCount": posts.PublishedCount,
		"draftCount":     posts.DraftCount,
		"page":           posts.Page,
		"totalPages":     posts.TotalPages,
		"search":         filter.Search,
		"status":         filter.Status,
	})
}

// ShowPostEdit 渲染文章编辑页，新建时无 id 参数
func (a *API) ShowPostEdit(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}

	data := gin.H{
		"title":    "编辑文章",
		"username": user.Username,
	}

	categories, err := a.categories.List()
	if err == nil {
		data["categories"] = categories
	}
	tags, err := a.tags.List()
	if err == nil {
		data["allTags"] = tags
	}

	if idParam := c.Param("id"); idParam != "" {
		id, err := parseUintParam(c, "id")
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		post, err := a.posts.Get(id)
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		if !user.Superuser && post.UserID != user.ID {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		data["post"] = post
	}

	a.renderHTML(c, http.StatusOK, "post_edit.html", data)
}

// ShowCategoryList 渲染后台分类管理页
func (a *API) ShowCategoryList(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}

	categories, err := a.categories.ListWithPosts()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	a.renderHTML(c, http.StatusOK, "category_list.html", gin.H{
		"title":      "分类管理",
		"username":   user.Username,
		"categories": categories,
	})
}

// ShowTagList 渲染后台标签管理页
func (a *API) ShowTagList(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}

	tags, err := a.tags.ListWithPosts()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	a.renderHTML(c, http.StatusOK, "tag_list.html", gin.H{
		"title":    "标签管理",
		"username": user.Username,
		"tags":     tags,
	})
}

type siteSettingsRequest struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription"`
	FooterText      string `json:"footerText"`
}

// GetSiteSettings 返回站点设置
func (a *API) GetSiteSettings(c *gin.Context) {
	settings, err := a.settings.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取站点设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"siteName":        settings.SiteName,
		"siteDescription": settings.SiteDescription,
		"footerText":      settings.FooterText,
	})
}

// UpdateSiteSettings 更新站点设置
func (a *API) UpdateSiteSettings(c *gin.Context) {
	var req siteSettingsRequest
	if !bindJSON(c, &req, "无效的站点设置") {
		return
	}

	settings, err := a.settings.UpdateSettings(service.SiteSettingsInput{
		SiteName:        req.SiteName,
		SiteDescription: req.SiteDescription,
		FooterText:      req.FooterText,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存站点设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "站点设置已保存",
		"siteName":        settings.SiteName,
		"siteDescription": settings.SiteDescription,
		"footerText":      settings.FooterText,
	})
}
