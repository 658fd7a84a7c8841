package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/artvault/internal/config"
	"github.com/artvault/internal/db"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var username string
	var password string
	flag.StringVar(&username, "username", "admin", "管理员用户名")
	flag.StringVar(&password, "password", "admin123", "管理员初始密码")
	flag.Parse()

	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseSource()); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 检查是否已存在用户
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，无需初始化")
		return
	}

	// 创建默认管理员用户
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	user := db.User{
		Username: username,
		Password: string(hashedPassword),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		log.Fatal("创建用户失败:", err)
	}

	fmt.Println("默认管理员用户创建成功")
	fmt.Println("用户名:", username)
	fmt.Println("密码:", password)
}
