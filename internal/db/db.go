package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// DriverSQLite 与 DriverMySQL 是支持的数据库驱动名。
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Init 初始化数据库连接并执行自动迁移。
// driver 为空或为 sqlite 时 dsn 解释为数据库文件路径，回退到默认值 artvault.db；
// driver 为 mysql 时 dsn 必须为完整的 MySQL DSN。
func Init(driver, dsn string) error {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return err
	}

	// 自动迁移模式，为核心模型创建表
	if err = DB.AutoMigrate(
		&User{},
		&Artist{},
		&ArtistLink{},
		&Series{},
		&Artwork{},
		&Image{},
		&Tag{},
		&Page{},
		&ArtworkStatistic{},
		&ArtworkVisit{},
		&SystemSetting{},
	); err != nil {
		return err
	}

	migrator := DB.Migrator()

	// 早期版本把媒体类别写进 images 表，现在按扩展名推断，列废弃即删。
	if migrator.HasColumn(&Image{}, "media_type") {
		if dropErr := migrator.DropColumn(&Image{}, "media_type"); dropErr != nil {
			return dropErr
		}
	}

	// 回填导入工具补齐前的历史数据：image_count 为 0 但确有文件的作品。
	if err := DB.Model(&Artwork{}).
		Where("image_count = 0 AND id IN (SELECT artwork_id FROM images WHERE images.deleted_at IS NULL)").
		Update("image_count", gorm.Expr(
			"(SELECT COUNT(*) FROM images WHERE images.artwork_id = artworks.id AND images.deleted_at IS NULL)",
		)).Error; err != nil {
		return err
	}

	return nil
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.TrimSpace(strings.ToLower(driver)) {
	case "", DriverSQLite:
		path := strings.TrimSpace(dsn)
		if path == "" {
			path = "artvault.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return sqlite.Open(path), nil
	case DriverMySQL:
		if strings.TrimSpace(dsn) == "" {
			return nil, errors.New("mysql driver requires DATABASE_DSN")
		}
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
