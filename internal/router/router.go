package router

import (
	"fmt"
	"html/template"
	"path"
	"path/filepath"
	"time"

	"github.com/artvault/internal/db"
	"github.com/artvault/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由。
// templateGlob 为空时跳过模板加载,测试依赖这一点绕开对 web/templates 的文件依赖。
func SetupRouter(sessionSecret, mediaDir, mediaURLPath, templateGlob string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("artvault_session", store))

	// 加载模板并添加自定义函数
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"mul": func(a, b int) int {
			return a * b
		},
		"gt": func(a, b int) bool {
			return a > b
		},
		"lt": func(a, b int) bool {
			return a < b
		},
		"eq": func(a, b interface{}) bool {
			return a == b
		},
		"timeAgo": func(value time.Time) string {
			return formatRelativeTime(time.Now(), value)
		},
	})
	if templateGlob != "" {
		r.LoadHTMLGlob(templateGlob)
	}

	// 静态文件服务;媒体目录位于 web/static 之下
	r.Static("/static", "./web/static")
	if mediaDir != "" {
		// 兼容早期以 /uploads 暴露媒体文件的链接
		r.Static("/uploads", mediaDir)
	}

	api := handler.NewAPI(db.DB, mediaDir, mediaURLPath).
		WithThumbStorage(thumbLocation(mediaDir, mediaURLPath))

	r.GET("/healthz", api.HealthCheck)

	// 前台画廊
	r.GET("/", api.ShowHome)
	r.GET("/artworks/more", api.LoadMoreArtworks)
	r.GET("/artworks/:id", api.ShowArtworkDetail)
	r.GET("/artists", api.ShowArtistIndex)
	r.GET("/artists/:username", api.ShowArtistProfile)
	r.GET("/series/:id", api.ShowSeriesDetail)
	r.GET("/tags", api.ShowTagArchive)
	r.GET("/about", api.ShowAbout)

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
			auth.GET("/artworks", api.ShowArtworkManagement)
			auth.GET("/artworks/new", api.ShowArtworkEdit)
			auth.GET("/artworks/:id/edit", api.ShowArtworkEdit)
			auth.GET("/artists", api.ShowArtistManagement)
			auth.GET("/about", api.ShowAboutEditor)
			auth.GET("/settings", api.ShowSystemSettings)

			// API路由
			adminAPI := auth.Group("/api")
			{
				adminAPI.GET("/artworks", api.ListArtworks)
				adminAPI.GET("/artworks/:id", api.GetArtwork)
				adminAPI.POST("/artworks", api.CreateArtwork)
				adminAPI.PUT("/artworks/:id", api.UpdateArtwork)
				adminAPI.DELETE("/artworks/:id", api.DeleteArtwork)

				adminAPI.GET("/artists", api.ListArtists)
				adminAPI.GET("/artists/:id", api.GetArtist)
				adminAPI.POST("/artists", api.CreateArtist)
				adminAPI.PUT("/artists/:id", api.UpdateArtist)
				adminAPI.DELETE("/artists/:id", api.DeleteArtist)
				adminAPI.GET("/artists/:id/links", api.ListArtistLinks)
				adminAPI.POST("/artists/:id/links", api.CreateArtistLink)
				adminAPI.PUT("/artists/:id/links/order", api.ReorderArtistLinks)
				adminAPI.PUT("/links/:id", api.UpdateArtistLink)
				adminAPI.DELETE("/links/:id", api.DeleteArtistLink)

				adminAPI.GET("/tags", api.GetTags)
				adminAPI.POST("/tags", api.CreateTag)
				adminAPI.PUT("/tags/order", api.ReorderTags)
				adminAPI.PUT("/tags/:id", api.UpdateTag)
				adminAPI.DELETE("/tags/:id", api.DeleteTag)

				adminAPI.GET("/series", api.ListSeries)
				adminAPI.GET("/series/:id", api.GetSeries)
				adminAPI.POST("/series", api.CreateSeries)
				adminAPI.PUT("/series/:id", api.UpdateSeries)
				adminAPI.DELETE("/series/:id", api.DeleteSeries)
				adminAPI.PUT("/series/:id/artworks/:artworkId", api.AssignSeriesArtwork)
				adminAPI.DELETE("/series/artworks/:artworkId", api.RemoveSeriesArtwork)

				adminAPI.PUT("/pages/about", api.UpdateAboutPage)

				adminAPI.GET("/settings", api.GetSystemSettings)
				adminAPI.PUT("/settings", api.UpdateSystemSettings)

				adminAPI.POST("/upload", api.UploadMedia)
			}
		}
	}

	return r
}

// thumbLocation 推导缩略图的落盘目录与访问前缀:与媒体目录同级的 thumbs。
func thumbLocation(mediaDir, mediaURLPath string) (string, string) {
	if mediaDir == "" {
		return "", ""
	}
	dir := filepath.Join(filepath.Dir(mediaDir), "thumbs")
	url := path.Join(path.Dir(mediaURLPath), "thumbs")
	return dir, url
}

// formatRelativeTime 以中文描述 value 相对 now 的时间差,零值返回空串。
func formatRelativeTime(now, value time.Time) string {
	if value.IsZero() {
		return ""
	}

	diff := now.Sub(value)
	if diff < time.Minute {
		return "刚刚"
	}
	if diff < time.Hour {
		return fmt.Sprintf("%d分钟前", int(diff.Minutes()))
	}
	if diff < 24*time.Hour {
		return fmt.Sprintf("%d小时前", int(diff.Hours()))
	}

	days := int(diff.Hours() / 24)
	if days < 30 {
		return fmt.Sprintf("%d天前", days)
	}
	if days < 365 {
		return fmt.Sprintf("%d个月前", days/30)
	}
	return fmt.Sprintf("%d年前", days/365)
}
