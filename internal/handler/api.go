package handler

import (
	"strings"

	"github.com/farout/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	categories *service.CategoryService
	tags       *service.TagService
	images     *service.PostImageService
	settings   *service.SiteSettingService
	uploadDir  string
	uploadURL  string
}

type siteViewModel struct {
	Name        string
	Description string
	Footer      string
}

const siteSettingsContextKey = "__site_settings"

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:         db,
		posts:      service.NewPostService(db),
		categories: service.NewCategoryService(db),
		tags:       service.NewTagService(db),
		images:     service.NewPostImageService(db),
		settings:   service.NewSiteSettingService(db),
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) siteSettings(c *gin.Context) siteViewModel {
	if cached, exists := c.Get(siteSettingsContextKey); exists {
		if view, ok := cached.(siteViewModel); ok {
			return view
		}
	}

	settings, err := a.settings.GetSettings()
	if err != nil {
		c.Error(err)
	}

	view := siteViewModel{
		Name:        strings.TrimSpace(settings.SiteName),
		Description: strings.TrimSpace(settings.SiteDescription),
		Footer:      strings.TrimSpace(settings.FooterText),
	}
	if view.Name == "" {
		view.Name = service.DefaultSiteName
	}

	c.Set(siteSettingsContextKey, view)
	return view
}

// renderHTML 在向模板渲染时自动附加站点设置中的名称与页脚信息。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	view := a.siteSettings(c)

	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["site"]; !exists {
		payload["site"] = gin.H{
			"name":        view.Name,
			"description": view.Description,
			"footer":      view.Footer,
		}
	}

	c.HTML(status, template, payload)
}
