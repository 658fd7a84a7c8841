package main

import (
	"log"

	"github.com/artvault/internal/config"
	"github.com/artvault/internal/db"
	"github.com/artvault/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env 缺失不视为错误,线上环境直接注入环境变量
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseSource()); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 根据环境变量引导首个管理员账号,已存在时跳过
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg.SessionSecret, cfg.MediaDir, cfg.MediaURLPath, "web/templates/*.html")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
