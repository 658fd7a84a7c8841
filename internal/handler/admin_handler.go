package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/artvault/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// loginLimiter 以客户端 IP 为粒度限制登录尝试,12 秒补充一次令牌,
// 突发最多 5 次。
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (l *loginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(12*time.Second), 5)
		l.limiters[ip] = limiter
	}
	return limiter.Allow()
}

var loginAttempts = newLoginLimiter()

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "管理员登录",
	})
}

// Login 处理用户登录请求 - 简化版，假设所有请求都来自HTMX
func (a *API) Login(c *gin.Context) {
	if !loginAttempts.allow(c.ClientIP()) {
		c.HTML(http.StatusTooManyRequests, "login_error.html", gin.H{"error": "尝试次数过多，请稍后再试"})
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	// 查找用户
	var user db.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		c.HTML(http.StatusUnauthorized, "login_error.html", gin.H{"error": "用户名或密码错误"})
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		c.HTML(http.StatusUnauthorized, "login_error.html", gin.H{"error": "用户名或密码错误"})
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "login_error.html", gin.H{"error": "会话保存失败"})
		return
	}

	// HTMX重定向
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/admin/login")
}

// ShowDashboard 渲染后台主面板,展示收藏规模与热门作品。
func (a *API) ShowDashboard(c *gin.Context) {
	session := sessions.Default(c)
	username := session.Get("username")

	overview, err := a.analytics.Overview(5)
	if err != nil {
		c.Error(err)
	}

	var tagCount int64
	a.db.Model(&db.Tag{}).Count(&tagCount)

	var seriesCount int64
	a.db.Model(&db.Series{}).Count(&seriesCount)

	a.renderHTML(c, http.StatusOK, "dashboard.html", gin.H{
		"title":        "管理面板",
		"username":     username,
		"artworkCount": overview.ArtworkCount,
		"artistCount":  overview.ArtistCount,
		"tagCount":     tagCount,
		"seriesCount":  seriesCount,
		"pageViews":    overview.TotalPageViews,
		"visitors":     overview.TotalUniqueVisitors,
		"topArtworks":  overview.TopArtworks,
	})
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
