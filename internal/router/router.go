package router

import (
	"github.com/farout/internal/db"
	"github.com/farout/internal/handler"
	"github.com/farout/internal/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(sessionSecret, uploadDir, uploadURL string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("farout_session", store))

	// 加载内嵌模板
	r.SetHTMLTemplate(web.Templates())

	// 上传文件服务
	if uploadDir != "" && uploadURL != "" {
		r.Static(uploadURL, uploadDir)
	}

	api := handler.NewAPI(db.DB, uploadDir, uploadURL)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 前台路由
	r.GET("/", api.ShowHome)
	r.GET("/post/:slug", api.ShowPostDetail)
	r.GET("/category/:slug", api.ShowCategoryDetail)
	r.GET("/tag/:slug", api.ShowTagDetail)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.ShowDashboard)
			auth.GET("/posts", api.ShowPostList)
			auth.GET("/posts/new", api.ShowPostEdit)
			auth.GET("/posts/:id/edit", api.ShowPostEdit)
			auth.GET("/categories", api.ShowCategoryList)
			auth.GET("/tags", api.ShowTagList)

			// API路由
			apiGroup := auth.Group("/api")
			{
				apiGroup.GET("/posts", api.GetPosts)
				apiGroup.GET("/posts/:id", api.GetPost)
				apiGroup.POST("/posts", api.CreatePost)
				apiGroup.PUT("/posts/:id", api.UpdatePost)
				apiGroup.DELETE("/posts/:id", api.DeletePost)

				apiGroup.GET("/posts/:id/images", api.GetPostImages)
				apiGroup.POST("/posts/:id/images", api.CreatePostImage)
				apiGroup.PUT("/posts/:id/images/reorder", api.ReorderPostImages)
				apiGroup.PUT("/images/:id", api.UpdatePostImage)
				apiGroup.DELETE("/images/:id", api.DeletePostImage)

				apiGroup.GET("/categories", api.GetCategories)
				apiGroup.POST("/categories", api.CreateCategory)
				apiGroup.PUT("/categories/:id", api.UpdateCategory)
				apiGroup.DELETE("/categories/:id", api.DeleteCategory)

				apiGroup.GET("/tags", api.GetTags)
				apiGroup.POST("/tags", api.CreateTag)
				apiGroup.PUT("/tags/:id", api.UpdateTag)
				apiGroup.DELETE("/tags/:id", api.DeleteTag)

				apiGroup.GET("/settings", api.GetSiteSettings)
				apiGroup.PUT("/settings", api.UpdateSiteSettings)

				apiGroup.POST("/upload", api.UploadImage)
			}
		}
	}

	return r
}
