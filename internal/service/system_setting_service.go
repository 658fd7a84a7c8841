package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/artvault/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSiteName 在后台未配置站点名称时使用。
const DefaultSiteName = "ArtVault"

// SystemSettings 描述后台可配置的系统信息。
type SystemSettings struct {
	SiteName        string
	SiteLogoURL     string
	FooterText      string
	GalleryPageSize int
}

// SystemSettingsInput 用于更新系统设置。
type SystemSettingsInput struct {
	SiteName        string
	SiteLogoURL     string
	FooterText      string
	GalleryPageSize int
}

// SystemSettingService 提供系统设置的读取与更新能力。
type SystemSettingService struct {
	db *gorm.DB
}

// NewSystemSettingService 构造 SystemSettingService。
func NewSystemSettingService(gdb *gorm.DB) *SystemSettingService {
	return &SystemSettingService{db: gdb}
}

var settingKeys = []string{
	db.SettingKeySiteName,
	db.SettingKeySiteLogoURL,
	db.SettingKeyFooterText,
	db.SettingKeyGalleryPageSize,
}

// GetSettings 读取系统设置,如未设置将返回默认值。
func (s *SystemSettingService) GetSettings() (SystemSettings, error) {
	result := SystemSettings{
		SiteName:        DefaultSiteName,
		GalleryPageSize: defaultArtworkPerPage,
	}

	var records []db.SystemSetting
	if err := s.db.Where("key IN ?", settingKeys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load system settings: %w", err)
	}

	for _, record := range records {
		switch record.Key {
		case db.SettingKeySiteName:
			if strings.TrimSpace(record.Value) != "" {
				result.SiteName = record.Value
			}
		case db.SettingKeySiteLogoURL:
			result.SiteLogoURL = record.Value
		case db.SettingKeyFooterText:
			result.FooterText = record.Value
		case db.SettingKeyGalleryPageSize:
			if size, err := strconv.Atoi(strings.TrimSpace(record.Value)); err == nil && size > 0 {
				result.GalleryPageSize = normalizePerPage(size, defaultArtworkPerPage)
			}
		}
	}

	return result, nil
}

// UpdateSettings 保存系统设置,未填写站点名称时回退默认值。
func (s *SystemSettingService) UpdateSettings(input SystemSettingsInput) (SystemSettings, error) {
	sanitized := SystemSettings{
		SiteName:        strings.TrimSpace(input.SiteName),
		SiteLogoURL:     strings.TrimSpace(input.SiteLogoURL),
		FooterText:      strings.TrimSpace(input.FooterText),
		GalleryPageSize: input.GalleryPageSize,
	}

	if sanitized.SiteName == "" {
		sanitized.SiteName = DefaultSiteName
	}
	if sanitized.GalleryPageSize <= 0 {
		sanitized.GalleryPageSize = defaultArtworkPerPage
	}
	sanitized.GalleryPageSize = normalizePerPage(sanitized.GalleryPageSize, defaultArtworkPerPage)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := upsertSetting(tx, db.SettingKeySiteName, sanitized.SiteName); err != nil {
			return err
		}
		if err := upsertSetting(tx, db.SettingKeySiteLogoURL, sanitized.SiteLogoURL); err != nil {
			return err
		}
		if err := upsertSetting(tx, db.SettingKeyFooterText, sanitized.FooterText); err != nil {
			return err
		}
		return upsertSetting(tx, db.SettingKeyGalleryPageSize, strconv.Itoa(sanitized.GalleryPageSize))
	})
	if err != nil {
		return SystemSettings{}, fmt.Errorf("update system settings: %w", err)
	}

	return sanitized, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
