package service

import (
	"errors"
	"time"

	"github.com/artvault/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultViewDedupWindow = 30 * time.Minute

// AnalyticsService 负责处理作品浏览相关的统计逻辑。
type AnalyticsService struct {
	db          *gorm.DB
	dedupWindow time.Duration
}

// NewAnalyticsService 创建 AnalyticsService,默认去重窗口为 30 分钟。
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb, dedupWindow: defaultViewDedupWindow}
}

// WithDedupWindow 允许在测试或特定场景下调整去重窗口。
func (s *AnalyticsService) WithDedupWindow(d time.Duration) *AnalyticsService {
	if d <= 0 {
		return s
	}
	s.dedupWindow = d
	return s
}

// RecordArtworkView 记录访客对作品的浏览,并返回最新的统计数据。
// 同一访客在去重窗口内的重复访问只更新最近浏览时间,不重复计数。
func (s *AnalyticsService) RecordArtworkView(artworkID uint, visitorID string, now time.Time) (*db.ArtworkStatistic, error) {
	if visitorID == "" || artworkID == 0 {
		return nil, errors.New("invalid visitor or artwork id")
	}

	var stats db.ArtworkStatistic

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		visit := db.ArtworkVisit{
			ArtworkID:     artworkID,
			VisitorID:     visitorID,
			LastViewedAt:  now,
			LastCountedAt: now,
		}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "artwork_id"}, {Name: "visitor_id"}},
			DoNothing: true,
		}).Create(&visit)
		if insert.Error != nil {
			return insert.Error
		}

		isNewVisitor := insert.RowsAffected == 1
		countsView := isNewVisitor
		if !isNewVisitor {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("artwork_id = ? AND visitor_id = ?", artworkID, visitorID).
				First(&visit).Error; err != nil {
				return err
			}
			visit.LastViewedAt = now
			if now.Sub(visit.LastCountedAt) >= s.dedupWindow {
				visit.LastCountedAt = now
				countsView = true
			}
			if err := tx.Save(&visit).Error; err != nil {
				return err
			}
		}

		statsResult := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("artwork_id = ?", artworkID).
			First(&stats)

		switch {
		case errors.Is(statsResult.Error, gorm.ErrRecordNotFound):
			stats = db.ArtworkStatistic{ArtworkID: artworkID}
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
		case statsResult.Error != nil:
			return statsResult.Error
		}

		if countsView {
			stats.PageViews++
		}
		if isNewVisitor {
			stats.UniqueVisitors++
		}
		stats.LastViewedAt = now

		if err := tx.Save(&stats).Error; err != nil {
			return err
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return &stats, nil
}

// ArtworkStatsMap 返回指定作品的统计数据,未找到的作品不会出现在结果中。
func (s *AnalyticsService) ArtworkStatsMap(artworkIDs []uint) (map[uint]*db.ArtworkStatistic, error) {
	result := make(map[uint]*db.ArtworkStatistic, len(artworkIDs))
	if len(artworkIDs) == 0 {
		return result, nil
	}

	var stats []db.ArtworkStatistic
	if err := s.db.Where("artwork_id IN ?", artworkIDs).Find(&stats).Error; err != nil {
		return nil, err
	}

	for i := range stats {
		stat := stats[i]
		copy := stat
		result[stat.ArtworkID] = &copy
	}

	return result, nil
}

// SiteOverview 聚合站点层面的 UV/PV 数据及热门作品。
type SiteOverview struct {
	TotalPageViews      uint64
	TotalUniqueVisitors uint64
	ArtworkCount        int64
	ArtistCount         int64
	TopArtworks         []TopArtworkStat
}

// TopArtworkStat 描述热门作品的统计信息。
type TopArtworkStat struct {
	ArtworkID      uint
	Title          string
	PageViews      uint64
	UniqueVisitors uint64
}

// Overview 汇总全站 UV/PV。
func (s *AnalyticsService) Overview(limit int) (SiteOverview, error) {
	if limit <= 0 {
		limit = 5
	}

	var overview SiteOverview

	// 总 PV/UV
	var totals struct {
		PageViews      uint64
		UniqueVisitors uint64
	}
	if err := s.db.Model(&db.ArtworkStatistic{}).
		Select("COALESCE(SUM(page_views), 0) AS page_views, COALESCE(SUM(unique_visitors), 0) AS unique_visitors").
		Scan(&totals).Error; err != nil {
		return overview, err
	}
	overview.TotalPageViews = totals.PageViews

	var uniqueVisitors int64
	if err := s.db.Model(&db.ArtworkVisit{}).Distinct("visitor_id").Count(&uniqueVisitors).Error; err != nil {
		return overview, err
	}
	overview.TotalUniqueVisitors = uint64(uniqueVisitors)

	if err := s.db.Model(&db.Artwork{}).Count(&overview.ArtworkCount).Error; err != nil {
		return overview, err
	}
	if err := s.db.Model(&db.Artist{}).Count(&overview.ArtistCount).Error; err != nil {
		return overview, err
	}

	var topArtworks []TopArtworkStat
	if err := s.db.Table("artwork_statistics stats").
		Select("stats.artwork_id, a.title, stats.page_views, stats.unique_visitors").
		Joins("JOIN artworks a ON a.id = stats.artwork_id").
		Where("a.deleted_at IS NULL").
		Order("stats.page_views DESC").
		Limit(limit).
		Scan(&topArtworks).Error; err != nil {
		return overview, err
	}

	overview.TopArtworks = topArtworks
	return overview, nil
}
