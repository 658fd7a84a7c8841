package handler

import (
	"strings"

	"github.com/artvault/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	artworks  *service.ArtworkService
	artists   *service.ArtistService
	tags      *service.TagService
	series    *service.SeriesService
	pages     *service.PageService
	analytics analyticsProvider
	system    *service.SystemSettingService
	uploadDir string
	uploadURL string
	thumbDir  string
	thumbURL  string
}

type siteViewModel struct {
	Name     string
	LogoURL  string
	Footer   string
	PageSize int
}

const siteSettingsContextKey = "__site_settings"

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:        db,
		artworks:  service.NewArtworkService(db).WithMediaBase(uploadURL),
		artists:   service.NewArtistService(db),
		tags:      service.NewTagService(db),
		series:    service.NewSeriesService(db),
		pages:     service.NewPageService(db),
		analytics: service.NewAnalyticsService(db),
		system:    service.NewSystemSettingService(db),
		uploadDir: uploadDir,
		uploadURL: uploadURL,
	}
}

// WithThumbStorage 配置缩略图的落盘目录与访问前缀。
func (a *API) WithThumbStorage(dir, urlPath string) *API {
	a.thumbDir = strings.TrimSpace(dir)
	a.thumbURL = strings.TrimSpace(urlPath)
	return a
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) siteSettings(c *gin.Context) siteViewModel {
	if cached, exists := c.Get(siteSettingsContextKey); exists {
		if view, ok := cached.(siteViewModel); ok {
			return view
		}
	}

	settings, err := a.system.GetSettings()
	if err != nil {
		c.Error(err)
	}

	view := siteViewModel{
		Name:     strings.TrimSpace(settings.SiteName),
		LogoURL:  strings.TrimSpace(settings.SiteLogoURL),
		Footer:   strings.TrimSpace(settings.FooterText),
		PageSize: settings.GalleryPageSize,
	}
	if view.Name == "" {
		view.Name = service.DefaultSiteName
	}
	if view.Footer == "" {
		view.Footer = "仅作个人收藏与欣赏，画作版权归原作者所有"
	}

	c.Set(siteSettingsContextKey, view)
	return view
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	view := a.siteSettings(c)

	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["site"]; !exists {
		payload["site"] = gin.H{
			"name":    view.Name,
			"logoUrl": view.LogoURL,
			"footer":  view.Footer,
		}
	}
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = view.Name
	}
	if _, exists := payload["siteLogoUrl"]; !exists {
		payload["siteLogoUrl"] = view.LogoURL
	}
	if _, exists := payload["siteFooter"]; !exists {
		payload["siteFooter"] = view.Footer
	}

	c.HTML(status, template, payload)
}

// RenderHTML 在向模板渲染时自动附加系统设置中的站点名称与 Logo 信息。
func (a *API) RenderHTML(c *gin.Context, status int, template string, data gin.H) {
	a.renderHTML(c, status, template, data)
}
