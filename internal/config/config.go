package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabaseDriver    string
	DatabasePath      string
	DatabaseDSN       string
	SessionSecret     string
	GinMode           string
	MediaDir          string
	MediaURLPath      string
	SuperRootUserName string
	SuperRootPassword string
	SiteBaseURL       string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databaseDriver := strings.TrimSpace(os.Getenv("DATABASE_DRIVER"))
	if databaseDriver == "" {
		databaseDriver = "sqlite"
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "artvault.db"
	}

	databaseDSN := strings.TrimSpace(os.Getenv("DATABASE_DSN"))

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "artvault-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	mediaDir := strings.TrimSpace(os.Getenv("MEDIA_DIR"))
	if mediaDir == "" {
		mediaDir = "web/static/media"
	}

	mediaURLPath := strings.TrimSpace(os.Getenv("MEDIA_URL_PATH"))
	if mediaURLPath == "" {
		mediaURLPath = "/static/media"
	}

	siteBaseURL := strings.TrimSpace(os.Getenv("SITE_BASE_URL"))
	if siteBaseURL == "" {
		siteBaseURL = "http://localhost:8080"
	}

	superRootUserName := strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME"))
	superRootPassword := strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD"))

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabaseDriver:    databaseDriver,
		DatabasePath:      databasePath,
		DatabaseDSN:       databaseDSN,
		SessionSecret:     sessionSecret,
		GinMode:           ginMode,
		MediaDir:          mediaDir,
		MediaURLPath:      mediaURLPath,
		SuperRootUserName: superRootUserName,
		SuperRootPassword: superRootPassword,
		SiteBaseURL:       siteBaseURL,
	}
}

// DatabaseSource 返回传给 db.Init 的数据源：mysql 用 DSN，sqlite 用文件路径。
func (c AppConfig) DatabaseSource() string {
	if strings.EqualFold(c.DatabaseDriver, "mysql") {
		return c.DatabaseDSN
	}
	return c.DatabasePath
}
